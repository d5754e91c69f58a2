package checkout

import (
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func validForm() Form {
	return Form{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Address:    "1 Analytical Way",
		City:       "London",
		State:      "LDN",
		ZipCode:    "N1 9GU",
		Country:    "uk",
		CardName:   "Ada Lovelace",
		CardNumber: "4242 4242 4242 4242",
		ExpMonth:   "04",
		ExpYear:    "2027",
		CVV:        "123",
	}
}

func TestValidateForm_Valid(t *testing.T) {
	if err := ValidateForm(validForm(), fixedNow); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateForm_ReportsEveryBadField(t *testing.T) {
	form := validForm()
	form.Email = "not-an-email"
	form.CardNumber = "4242 4242"
	form.Country = "FR"
	form.CVV = "12a"

	err := ValidateForm(form, fixedNow)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", typed.Details())
	}
	for _, field := range []string{"email", "cardNumber", "country", "cvv"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("expected detail for %s, got %v", field, details)
		}
	}
	if _, ok := details["firstName"]; ok {
		t.Fatalf("did not expect firstName detail")
	}
}

func TestValidateForm_RequiredFields(t *testing.T) {
	err := ValidateForm(Form{}, fixedNow)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["firstName"] != "is required" {
		t.Fatalf("unexpected firstName detail %q", details["firstName"])
	}
	if len(details) != 13 {
		t.Fatalf("expected every field to be reported, got %d: %v", len(details), details)
	}
}

func TestValidateForm_Expiry(t *testing.T) {
	cases := []struct {
		name  string
		month string
		year  string
		field string
	}{
		{name: "month out of range", month: "13", year: "2027", field: "expMonth"},
		{name: "past year", month: "05", year: "2025", field: "expYear"},
		{name: "too far ahead", month: "05", year: "2036", field: "expYear"},
		{name: "expired this year", month: "02", year: "2026", field: "expMonth"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.ExpMonth = tc.month
			form.ExpYear = tc.year
			err := ValidateForm(form, fixedNow)
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected validation error")
			}
			details := typed.Details().(map[string]string)
			if _, ok := details[tc.field]; !ok {
				t.Fatalf("expected %s detail, got %v", tc.field, details)
			}
		})
	}

	form := validForm()
	form.ExpMonth = "03"
	form.ExpYear = "2026"
	if err := ValidateForm(form, fixedNow); err != nil {
		t.Fatalf("current month should still be valid: %v", err)
	}
}

func TestMaskedCard(t *testing.T) {
	if got := validForm().MaskedCard(); got != "************4242" {
		t.Fatalf("unexpected masked card %q", got)
	}
	if got := (Form{CardNumber: "12"}).MaskedCard(); got != "" {
		t.Fatalf("expected empty mask for short input, got %q", got)
	}
}

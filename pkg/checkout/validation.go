package checkout

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// SupportedCountries lists the shipping countries offered at checkout.
var SupportedCountries = []string{"US", "CA", "UK", "AU"}

// expiryYearsAhead bounds how far in the future a card expiry year may be.
const expiryYearsAhead = 9

// Form captures the shipping and payment details submitted at checkout.
// No payment is processed; the card fields are only shape-checked.
type Form struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	ZipCode    string `json:"zipCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,oneof=US CA UK AU"`
	CardName   string `json:"cardName" validate:"required,max=100"`
	CardNumber string `json:"cardNumber" validate:"required,len=16,numeric"`
	ExpMonth   string `json:"expMonth" validate:"required,len=2,numeric"`
	ExpYear    string `json:"expYear" validate:"required,len=4,numeric"`
	CVV        string `json:"cvv" validate:"required,min=3,max=4,numeric"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Normalize trims every field, upper-cases the country and strips card number separators.
func (f Form) Normalize() Form {
	out := Form{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Address:   strings.TrimSpace(f.Address),
		City:      strings.TrimSpace(f.City),
		State:     strings.TrimSpace(f.State),
		ZipCode:   strings.TrimSpace(f.ZipCode),
		Country:   strings.ToUpper(strings.TrimSpace(f.Country)),
		CardName:  strings.TrimSpace(f.CardName),
		ExpMonth:  strings.TrimSpace(f.ExpMonth),
		ExpYear:   strings.TrimSpace(f.ExpYear),
		CVV:       strings.TrimSpace(f.CVV),
	}
	out.CardNumber = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, f.CardNumber)
	return out
}

// MaskedCard returns the card number with everything but the last four digits hidden.
func (f Form) MaskedCard() string {
	digits := f.Normalize().CardNumber
	if len(digits) < 4 {
		return ""
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// ValidateForm checks the normalized form. Field problems are reported together
// under a single validation error keyed by the json field name.
func ValidateForm(form Form, now time.Time) error {
	form = form.Normalize()
	details := map[string]string{}

	if err := validate.Struct(form); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout form")
		}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
	}

	_, monthBad := details["expMonth"]
	_, yearBad := details["expYear"]
	if !monthBad && !yearBad {
		for field, msg := range validateExpiry(form.ExpMonth, form.ExpYear, now) {
			details[field] = msg
		}
	}

	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("checkout form has %d invalid field(s)", len(details))).WithDetails(details)
}

func validateExpiry(rawMonth, rawYear string, now time.Time) map[string]string {
	problems := map[string]string{}
	month, _ := strconv.Atoi(rawMonth)
	year, _ := strconv.Atoi(rawYear)

	if month < 1 || month > 12 {
		problems["expMonth"] = "must be between 01 and 12"
	}
	current := now.Year()
	if year < current || year > current+expiryYearsAhead {
		problems["expYear"] = fmt.Sprintf("must be between %d and %d", current, current+expiryYearsAhead)
	}
	if len(problems) == 0 && year == current && month < int(now.Month()) {
		problems["expMonth"] = "card has expired"
	}
	return problems
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}

package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","password":"secret1"}`))
	var body loginBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Email != "a@b.co" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"email":`,
		"unknown field": `{"email":"a@b.co","password":"secret1","admin":true}`,
		"invalid email": `{"email":"nope","password":"secret1"}`,
		"short":         `{"email":"a@b.co","password":"abc"}`,
	}
	for name, raw := range cases {
		var body loginBody
		err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(raw)), &body)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	var body loginBody
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(`{"password":"abc"}`)), &body)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", err)
	}
	if details["email"] != "is required" || details["password"] != "must be at least 6" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyExplainsRejection(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want string
	}{
		"empty":    {``, "body is empty"},
		"syntax":   {`{"email" "a"}`, "malformed JSON at offset"},
		"type":     {`{"email":7,"password":"secret1"}`, "email must be a string"},
		"unknown":  {`{"email":"a@b.co","password":"secret1","admin":true}`, `unknown field "admin"`},
		"trailing": {`{"email":"a@b.co","password":"secret1"} {}`, ""},
		"too big":  {`{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, "body exceeds"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var body loginBody
			err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(tc.raw)), &body)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.want == "" {
				return
			}
			details, _ := typed.Details().(map[string]any)
			if reason, _ := details["error"].(string); !strings.Contains(reason, tc.want) {
				t.Fatalf("expected reason containing %q, got %v", tc.want, details)
			}
		})
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest("GET", "/?featured=true&bad=maybe", nil)
	if v, err := ParseQueryBool(req, "featured", false); err != nil || !v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "missing", true); err != nil || !v {
		t.Fatalf("expected default, got %v %v", v, err)
	}
	if _, err := ParseQueryBool(req, "bad", false); err == nil {
		t.Fatal("expected error for non-boolean")
	}
}

func TestParseQueryList(t *testing.T) {
	req := httptest.NewRequest("GET", "/?tags=coffee,%20gift&tags=coffee&tags=", nil)
	got, err := ParseQueryList(req, "tags", 10)
	if err != nil {
		t.Fatalf("ParseQueryList: %v", err)
	}
	if len(got) != 2 || got[0] != "coffee" || got[1] != "gift" {
		t.Fatalf("unexpected list %v", got)
	}
	if _, err := ParseQueryList(req, "tags", 1); err == nil {
		t.Fatal("expected error above max items")
	}
}

func TestSanitizeStringIsRuneSafe(t *testing.T) {
	if got := SanitizeString("  café\x00 au lait  ", 6); got != "café a" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := SanitizeString("\tmug\n", 0); got != "mug" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

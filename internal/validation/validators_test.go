package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "maria.silva@example.com.br"}
	invalid := []string{"", "maria", "maria@", "maria@example", "ma ria@example.com"}
	for _, v := range valid {
		if !Email(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range invalid {
		if Email(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestPhone(t *testing.T) {
	for _, v := range []string{"", "+55 (11) 98765-4321", "11987654321"} {
		if !Phone(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	for _, v := range []string{"call me", "12a45"} {
		if Phone(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestLengthValidators(t *testing.T) {
	if !MinLength(3)("") || !MaxLength(3)("") {
		t.Error("length validators should accept empty values")
	}
	if MinLength(3)("ab") {
		t.Error("MinLength(3) should reject ab")
	}
	if MaxLength(3)("abcd") {
		t.Error("MaxLength(3) should reject abcd")
	}
	if !MatchField("secret")("secret") || MatchField("secret")("Secret") {
		t.Error("MatchField mismatch")
	}
	if Required("") || !Required("x") {
		t.Error("Required mismatch")
	}
	if Password("short") || !Password("longenough") {
		t.Error("Password length check mismatch")
	}
}

func TestValidateForm_FirstFailingRuleWins(t *testing.T) {
	rules := map[string][]Rule{
		"email": {
			{Validator: Required, Message: "Email is required"},
			{Validator: Email, Message: "Invalid email"},
		},
		"phone": {
			{Validator: Phone, Message: "Invalid phone"},
		},
	}

	errs := ValidateForm(map[string]string{"email": "", "phone": "abc"}, rules)
	if errs["email"] != "Email is required" {
		t.Fatalf("expected required message, got %q", errs["email"])
	}
	if errs["phone"] != "Invalid phone" {
		t.Fatalf("expected phone message, got %q", errs["phone"])
	}

	errs = ValidateForm(map[string]string{"email": "bad"}, rules)
	if errs["email"] != "Invalid email" {
		t.Fatalf("expected invalid email message, got %q", errs["email"])
	}
	if errs.Has("phone") {
		t.Fatal("empty phone should pass")
	}

	errs = ValidateForm(map[string]string{"email": "a@b.co"}, rules)
	if errs.Err() != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestErrors_ErrorIsSortedAndUsable(t *testing.T) {
	errs := Errors{}
	errs.Add("name", "Name is required")
	errs.Add("email", "Invalid email")
	errs.Add("name", "ignored")

	err := errs.Err()
	var target Errors
	if !errors.As(err, &target) {
		t.Fatal("expected Errors to be recoverable with errors.As")
	}
	if err.Error() != "email: Invalid email; name: Name is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"joao_silva", ""},
		{"", "required"},
		{"jo", "between 3 and 20"},
		{strings.Repeat("a", 21), "between 3 and 20"},
		{"1joao", "start with a letter"},
		{"joao-silva", "letters, numbers and underscores"},
	}
	for _, tt := range tests {
		got := Username(tt.in)
		if tt.wantErr == "" && got != "" {
			t.Errorf("Username(%q): expected valid, got %q", tt.in, got)
		}
		if tt.wantErr != "" && !strings.Contains(got, tt.wantErr) {
			t.Errorf("Username(%q): expected %q in %q", tt.in, tt.wantErr, got)
		}
	}
}

// Package forms holds typed form state for the client screens together
// with their validation and conversion to API payloads.
package forms

import (
	"strings"

	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/validation"
)

// GeneralField keys errors that are not tied to a single input.
const GeneralField = "general"

type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

func (f RegisterForm) Validate() validation.Errors {
	errs := validation.Errors{}

	if msg := validation.Username(f.Name); msg != "" {
		errs.Add("name", msg)
	}

	switch {
	case f.Email == "":
		errs.Add("email", "Email is required")
	case !validation.Email(f.Email):
		errs.Add("email", "Invalid email")
	}

	if msg := validation.PasswordMessage(f.Password); msg != "" {
		errs.Add("password", msg)
	}

	switch {
	case f.ConfirmPassword == "":
		errs.Add("confirmPassword", "Password confirmation is required")
	case !validation.MatchField(f.Password)(f.ConfirmPassword):
		errs.Add("confirmPassword", "Passwords do not match")
	}

	if !f.AcceptTerms {
		errs.Add("acceptTerms", "You must accept the terms of use")
	}
	return errs
}

func (f RegisterForm) Params() models.RegisterParams {
	return models.RegisterParams{
		Name:     f.Name,
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

func (f RegisterForm) Strength() validation.Strength {
	return validation.PasswordStrength(f.Password)
}

type LoginForm struct {
	Username string // username or email
	Password string
}

func (f LoginForm) Validate() validation.Errors {
	return validation.ValidateForm(
		map[string]string{"username": f.Username, "password": f.Password},
		map[string][]validation.Rule{
			"username": {{Validator: validation.Required, Message: "Username or email is required"}},
			"password": {{Validator: validation.Required, Message: "Password is required"}},
		},
	)
}

func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Username: strings.TrimSpace(f.Username), Password: f.Password}
}

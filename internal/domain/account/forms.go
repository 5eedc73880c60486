// internal/domain/account/forms.go
package account

import (
	"regexp"
	"strings"

	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// SignInForm is the sign-in page form
type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpForm is the sign-up page form
type SignUpForm struct {
	FullName        string `json:"fullName" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// Validate checks the form before anything is sent
func (f SignUpForm) Validate() error {
	errs := structErrors(f)
	addPasswordErrors(errs, f.Password, f.ConfirmPassword)
	if !f.AcceptTerms {
		errs.Add("terms", "You must agree to the terms")
	}
	return errs.Err()
}

// ResetForm is the reset-password page form
type ResetForm struct {
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the form before anything is sent
func (f ResetForm) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(f.Code) == "" {
		errs.Add("code", "Invalid reset link")
	}
	addPasswordErrors(errs, f.Password, f.ConfirmPassword)
	return errs.Err()
}

// ProfileForm is the profile page form
type ProfileForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Validate checks the form before anything is sent
func (f ProfileForm) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(f.FullName) == "" {
		errs.Add("fullName", "Full name is required")
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs.Add("email", "Email is required")
	case validation.Validator().Var(f.Email, "email") != nil:
		errs.Add("email", "Invalid email format")
	}
	if f.Phone != "" && !validation.IsPhone(f.Phone) {
		errs.Add("phone", "Invalid phone format")
	}
	return errs.Err()
}

// ValidateCode checks a verification code is exactly six digits
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return validation.Field("code", "Please enter the complete 6-digit code.")
	}
	return nil
}

func addPasswordErrors(errs validation.Errors, password, confirm string) {
	if err := auth.ValidatePassword(password); err != nil {
		errs.Add("password", err.Error())
	}
	if password != confirm {
		errs.Add("confirmPassword", auth.ErrPasswordMismatch.Error())
	}
}

func structErrors(v interface{}) validation.Errors {
	if err := validation.Struct(v); err != nil {
		if ve, ok := validation.AsErrors(err); ok {
			return ve
		}
	}
	return validation.Errors{}
}

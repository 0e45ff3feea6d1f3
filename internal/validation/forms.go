package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/wedding-planner-api/internal/models"
)

// SignInForm is the sign-in screen input
type SignInForm struct {
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignUpForm is the sign-up screen input
type SignUpForm struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,loose_email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// formMessages maps field+tag to the message shown under the input
var formMessages = map[string]string{
	"email.required":            "Email is required",
	"email.loose_email":         "Email address is invalid",
	"password.required":         "Password is required",
	"password.min":              "Password must be at least 6 characters",
	"username.required":         "Username is required",
	"username.min":              "Username must be at least 3 characters",
	"confirm_password.required": "Please confirm your password",
	"confirm_password.eqfield":  "Passwords do not match",
}

// FormValidator checks credential forms with struct tags
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a form validator with the custom rules registered
func NewFormValidator() *FormValidator {
	return &FormValidator{validate: newValidate()}
}

// ValidateSignIn validates a sign-in form
func (f *FormValidator) ValidateSignIn(form SignInForm) []models.ValidationError {
	return f.check(form)
}

// ValidateSignUp validates a sign-up form
func (f *FormValidator) ValidateSignUp(form SignUpForm) []models.ValidationError {
	return f.check(form)
}

func (f *FormValidator) check(form interface{}) []models.ValidationError {
	return collect(f.validate.Struct(form), formError)
}

func formError(fe validator.FieldError) models.ValidationError {
	msg, ok := formMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return models.ValidationError{Field: fe.Field(), Message: msg}
}

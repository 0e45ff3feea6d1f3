package validation

import (
	"testing"
)

func TestValidateSignIn(t *testing.T) {
	v := NewFormValidator()

	tests := []struct {
		name     string
		form     SignInForm
		wantMsgs map[string]string
	}{
		{
			name: "valid form",
			form: SignInForm{Email: "sarah@example.com", Password: "secret1"},
		},
		{
			name: "empty form",
			form: SignInForm{},
			wantMsgs: map[string]string{
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name: "bad email and short password",
			form: SignInForm{Email: "sarah", Password: "12345"},
			wantMsgs: map[string]string{
				"email":    "Email address is invalid",
				"password": "Password must be at least 6 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := v.ValidateSignIn(tt.form)
			if len(errors) != len(tt.wantMsgs) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantMsgs), len(errors), errors)
			}
			for _, err := range errors {
				if want := tt.wantMsgs[err.Field]; err.Message != want {
					t.Errorf("Expected %s message %q, got %q", err.Field, want, err.Message)
				}
			}
		})
	}
}

func TestValidateSignUp(t *testing.T) {
	v := NewFormValidator()

	valid := SignUpForm{
		Username:        "sarah",
		Email:           "sarah@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	if errors := v.ValidateSignUp(valid); len(errors) != 0 {
		t.Fatalf("Expected no errors, got %v", errors)
	}

	tests := []struct {
		name      string
		mutate    func(*SignUpForm)
		wantField string
		wantMsg   string
	}{
		{"short username", func(f *SignUpForm) { f.Username = "sj" }, "username", "Username must be at least 3 characters"},
		{"missing confirmation", func(f *SignUpForm) { f.ConfirmPassword = "" }, "confirm_password", "Please confirm your password"},
		{"mismatched confirmation", func(f *SignUpForm) { f.ConfirmPassword = "secret2" }, "confirm_password", "Passwords do not match"},
		{"invalid email", func(f *SignUpForm) { f.Email = "sarah@example" }, "email", "Email address is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			errors := v.ValidateSignUp(form)
			if len(errors) != 1 {
				t.Fatalf("Expected 1 error, got %d: %v", len(errors), errors)
			}
			if errors[0].Field != tt.wantField || errors[0].Message != tt.wantMsg {
				t.Errorf("Expected %s: %q, got %s: %q", tt.wantField, tt.wantMsg, errors[0].Field, errors[0].Message)
			}
		})
	}
}

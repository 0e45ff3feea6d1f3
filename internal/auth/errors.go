package auth

import (
	"errors"
	"fmt"

	"github.com/wedding-planner-api/internal/models"
)

// Code identifies an identity provider failure
type Code string

const (
	CodeUserNotFound        Code = "auth/user-not-found"
	CodeWrongPassword       Code = "auth/wrong-password"
	CodeInvalidEmail        Code = "auth/invalid-email"
	CodeTooManyRequests     Code = "auth/too-many-requests"
	CodeNetwork             Code = "auth/network-request-failed"
	CodeInternal            Code = "auth/internal-error"
	CodeEmailInUse          Code = "auth/email-already-in-use"
	CodeWeakPassword        Code = "auth/weak-password"
	CodeOperationNotAllowed Code = "auth/operation-not-allowed"
	CodeUnknown             Code = "auth/unknown"
)

// DefaultMessage is shown for any failure without a dedicated message
const DefaultMessage = "An error occurred. Please try again."

var messages = map[Code]string{
	CodeUserNotFound:        "No user found with this email.",
	CodeWrongPassword:       "Incorrect password.",
	CodeInvalidEmail:        "Invalid email address.",
	CodeTooManyRequests:     "Too many failed attempts. Try again later.",
	CodeNetwork:             "Network error. Please check your connection.",
	CodeInternal:            "Server error. Please try again later.",
	CodeEmailInUse:          "This email is already registered.",
	CodeWeakPassword:        "Password is too weak.",
	CodeOperationNotAllowed: "Email/password accounts are not enabled.",
}

// Message returns the user-facing message for a code
func Message(code Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return DefaultMessage
}

// Error is a provider failure carrying its code
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extracts the code of err, CodeUnknown when it carries none
func CodeOf(err error) Code {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return CodeUnknown
}

// MessageOf returns the user-facing message for any error
func MessageOf(err error) string {
	return Message(CodeOf(err))
}

// FormError is returned when a credential form fails validation before the
// provider is called
type FormError struct {
	Errors []models.ValidationError
}

func (e *FormError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid form"
	}
	return e.Errors[0].Message
}

// ErrRequestPending is returned when a sign-in or sign-up is already in
// flight on the session
var ErrRequestPending = errors.New("an authentication request is already in progress")

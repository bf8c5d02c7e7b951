package identity

import (
	"errors"
	"fmt"
)

var (
	ErrEmailInUse      = errors.New("email already in use")
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongCredential = errors.New("wrong credential")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrNotSignedIn     = errors.New("not signed in")
	ErrProvider        = errors.New("identity provider error")
)

// ValidationError 输入校验失败，Message 可直接展示给用户
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// Operation names the user action an error belongs to, for message mapping.
type Operation int

const (
	OpRegister Operation = iota + 1
	OpSignIn
	OpFederated
	OpUpdate
)

// Message maps an error to the text shown on the login/register view.
func Message(op Operation, err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrEmailInUse):
		return "This email is already registered. Please login."
	case errors.Is(err, ErrUserNotFound):
		return "No user found with this email. Please register."
	case errors.Is(err, ErrWrongCredential):
		return "Incorrect password. Please try again."
	}
	switch op {
	case OpRegister:
		return "Registration failed. Please try again."
	case OpSignIn:
		return "Login failed. Please try again."
	case OpFederated:
		return "Google login failed. Please try again."
	default:
		return "Profile update failed. Please try again."
	}
}

package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"":         false,
		"abc!":     false,
		"abcdef":   false,
		"abcde!":   true,
		"p@ssword": true,
		"123456?":  true,
	}
	for pass, want := range cases {
		assert.Equal(t, want, StrongPassword(pass), pass)
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name, email, password, msg string
	}{
		{"ok", "a@example.com", "secret!", ""},
		{"missing email", "", "secret!", "Email is required"},
		{"bad email", "not-an-email", "secret!", "Email is invalid"},
		{"weak password", "a@example.com", "secret", "Password must be at least 6 characters long and contain a special character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.email, tt.password)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			if assert.True(t, errors.As(err, &ve)) {
				assert.Equal(t, tt.msg, ve.Message)
			}
		})
	}
}

func TestValidateSignIn(t *testing.T) {
	assert.NoError(t, ValidateSignIn("a@example.com", "x"))

	err := ValidateSignIn("a@example.com", "")
	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "password", ve.Field)
		assert.Equal(t, "Password is required", ve.Message)
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(OpSignIn, nil))
	assert.Equal(t, "This email is already registered. Please login.", Message(OpRegister, ErrEmailInUse))
	assert.Equal(t, "No user found with this email. Please register.", Message(OpSignIn, ErrUserNotFound))
	assert.Equal(t, "Incorrect password. Please try again.", Message(OpSignIn, ErrWrongCredential))
	assert.Equal(t, "Login failed. Please try again.", Message(OpSignIn, ErrProvider))
	assert.Equal(t, "Registration failed. Please try again.", Message(OpRegister, errors.New("boom")))
	assert.Equal(t, "Google login failed. Please try again.", Message(OpFederated, ErrInvalidToken))
	assert.Equal(t, "Email is invalid", Message(OpRegister, &ValidationError{Field: "email", Message: "Email is invalid"}))
}

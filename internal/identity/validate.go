package identity

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = RegisterValidations(v)
	return v
}

// RegisterValidations 注册 strongpassword 标签：至少 6 位且包含一个特殊字符
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
}

func StrongPassword(pass string) bool {
	return len(pass) >= 6 && strings.ContainsAny(pass, passwordSpecials)
}

type registration struct {
	Email    string `validate:"required,email"`
	Password string `validate:"strongpassword"`
}

type signIn struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ValidateRegistration 注册前校验
func ValidateRegistration(email, password string) error {
	return translate(validate.Struct(registration{Email: email, Password: password}))
}

// ValidateSignIn 登录前校验
func ValidateSignIn(email, password string) error {
	return translate(validate.Struct(signIn{Email: email, Password: password}))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Email" && fe.Tag() == "required":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case fe.Field() == "Email":
		return &ValidationError{Field: "email", Message: "Email is invalid"}
	case fe.Tag() == "strongpassword":
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long and contain a special character"}
	default:
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
}

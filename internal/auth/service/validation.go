package service

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type credentials struct {
	Email    string `validate:"required,maxbytes=254"`
	Password string `validate:"required,maxbytes=72"`
}

type CredentialValidator struct {
	validate *validator.Validate
}

func NewCredentialValidator() CredentialValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// bcrypt limits are in bytes, the built-in max tag counts runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return CredentialValidator{validate: v}
}

func (cv CredentialValidator) Validate(email, password string) error {
	err := cv.validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrInvalidInput.WithCause(err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrInvalidInput
		}
	}

	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Password":
			return ErrPasswordTooLong
		case "Email":
			return ErrEmailTooLong
		}
	}

	return ErrInvalidInput
}

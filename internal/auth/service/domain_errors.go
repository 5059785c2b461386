package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/ocr-notes/internal/common/errors"
)

var (
	ErrInvalidInput = commonerrors.NewDomainError(
		"INVALID_INPUT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Email and password are required",
	)

	ErrPasswordTooLong = commonerrors.NewDomainError(
		"PASSWORD_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Password must be at most 72 bytes",
	)

	ErrEmailTooLong = commonerrors.NewDomainError(
		"EMAIL_TOO_LONG",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Email must be at most 254 bytes",
	)

	ErrUserAlreadyExists = commonerrors.NewDomainError(
		"USER_ALREADY_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"User already exists",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusBadRequest,
		"User not found",
	)

	// Reported with 200 and success:false; a wrong password is an expected
	// outcome for the client, not a failed request.
	ErrIncorrectPassword = commonerrors.NewDomainError(
		"INCORRECT_PASSWORD",
		commonerrors.CategoryAuth,
		http.StatusOK,
		"Incorrect password",
	)

	ErrInternalProcessing = commonerrors.NewDomainError(
		"INTERNAL_PROCESSING_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)

package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/ocr-notes/internal/common/errors"
)

var (
	ErrFileRequired = commonerrors.NewDomainError(
		"FILE_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"File not found",
	)

	ErrProcessingFailed = commonerrors.NewDomainError(
		"OCR_PROCESSING_FAILED",
		commonerrors.CategoryExternal,
		http.StatusInternalServerError,
		"Error processing file",
	)

	ErrListFailed = commonerrors.NewDomainError(
		"OCR_LIST_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"something went wrong",
	)
)

package service

import (
	"go-material-inventory/internal/apperror"
	"go-material-inventory/pkg/validator"
)

// validationError validates req and returns the first failure as a ValidationError, or nil
func validationError(req interface{}) error {
	if msg := validator.FirstError(req); msg != "" {
		return apperror.Validation(msg)
	}
	return nil
}

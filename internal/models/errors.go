package models

import (
	"errors"
	"fmt"
)

// Business-rule rejections. The API layer maps these to 4xx responses;
// anything else coming out of the engines is a storage fault and maps
// to a 5xx without leaking the underlying error.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateName     = errors.New("product name already exists")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrAlreadyVoided     = errors.New("sale already voided")
)

// ValidationError marks malformed caller input. It is raised before any
// transaction is opened, so no state has changed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/severity/internal/common"
)

// fieldError is an invalid form field. key is the catalog message, which
// takes the field name as its only argument.
type fieldError struct {
	field string
	key   string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf(e.key, e.field)
}

func (e *fieldError) Unwrap() error {
	return common.ErrInvalidInput
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the user-facing message key and its arguments.
// Internal errors never leak their text.
func messageFor(err error) (string, []any) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		var fe *fieldError
		if errors.As(err, &fe) {
			return fe.key, []any{fe.field}
		}
		return msgInvalidInput, nil
	case errors.Is(err, common.ErrorValidation):
		return msgCheckCredentials, nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return msgUsernameTaken, nil
	case errors.Is(err, common.ErrorUnauthorized):
		return msgBadCredentials, nil
	default:
		return msgInternal, nil
	}
}

package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/api/apierrors"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap maps the envelope code to a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case apierrors.CodeValidationError:
		return common.ErrorValidation
	case apierrors.CodeAlreadyExists:
		return common.ErrorAlreadyExists
	case apierrors.CodeUnauthorized:
		return common.ErrorUnauthorized
	case apierrors.CodeNotFound:
		return common.ErrorNotFound
	case apierrors.CodeStorageError:
		return common.ErrorStorage
	default:
		return common.ErrorInternal
	}
}

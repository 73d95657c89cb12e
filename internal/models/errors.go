package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrUnsupportedType = errors.New("unsupported investment type")
	ErrInvalidID       = errors.New("invalid ID format")
)

// DomainError reports a business-rule violation on a named field. It maps
// to a 422 response with field-level detail at the transport layer.
type DomainError struct {
	Field   string
	Message string
}

func (e *DomainError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

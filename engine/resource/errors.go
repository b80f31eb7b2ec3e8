package resource

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrInvalidPropertyValue    = errors.New("invalid property value")
	ErrDefinitionCompiled      = errors.New("resource definition already compiled")
	ErrDefinitionNotCompiled   = errors.New("resource definition not compiled")
	ErrDuplicateProperty       = errors.New("duplicate property")
	ErrInvalidSchema           = errors.New("invalid schema")
)

// PropertyError ties a failure to one property of one definition.
type PropertyError struct {
	Resource string
	Property string
	Err      error
	Detail   string
}

func (e *PropertyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s.%s: %v: %s", e.Resource, e.Property, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s.%s: %v", e.Resource, e.Property, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

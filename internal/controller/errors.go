package controller

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// ErrNotFound means the entity is not in the controller's local list.
var ErrNotFound = errors.New("not found")

// FieldSubmit keys a form-level message that belongs to no single field.
const FieldSubmit = "submit"

// ValidationError is a client-side check that blocked a remote call.
type ValidationError struct {
	Fields map[string]string
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

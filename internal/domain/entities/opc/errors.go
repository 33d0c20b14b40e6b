package opc

import "errors"

var (
	// ErrSchemaCollision is returned when two flattened properties share a name
	ErrSchemaCollision = errors.New("property name collision")
	// ErrDuplicateClass is returned when a registry receives the same class twice
	ErrDuplicateClass = errors.New("duplicate portlet class")
	// ErrTreeTooDeep is returned when serialized data nests deeper than the decoder allows
	ErrTreeTooDeep = errors.New("composition tree exceeds maximum depth")
	// ErrAreaTooLarge is returned when one area holds more items than the decoder allows
	ErrAreaTooLarge = errors.New("area exceeds maximum item count")
	// ErrBlueprintNotFound is returned when no stored blueprint matches a lookup
	ErrBlueprintNotFound = errors.New("blueprint not found")
)

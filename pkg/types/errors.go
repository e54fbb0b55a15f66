package types

import "errors"

// Registration errors returned by storage when handed something that is not
// an entity. These are contract violations, not user-input errors.
var (
	ErrNotEntity   = errors.New("argument is not an entity")
	ErrBadInstance = errors.New("bad instance argument")
)

// Entity and record errors.
var (
	ErrUnknownKind      = errors.New("unknown entity kind")
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrReservedField    = errors.New("field is reserved")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidRecord    = errors.New("invalid record")
)

package statetag

import "errors"

var (
	// ErrInvalidHost is returned when the host is not a struct or non-nil
	// pointer to struct.
	ErrInvalidHost = errors.New("statetag: host must be a struct or non-nil pointer to struct")

	// ErrInvalidStateField is returned when a field tagged as a state does
	// not have a string kind.
	ErrInvalidStateField = errors.New("statetag: state field must have a string kind")

	// ErrInvalidHandlerField is returned when a field tagged as a handler
	// does not hold a non-nil function.
	ErrInvalidHandlerField = errors.New("statetag: handler field must hold a non-nil function")

	// ErrInvalidTag is returned for an unknown directive or a malformed,
	// unknown or duplicated tag option.
	ErrInvalidTag = errors.New("statetag: malformed fsm tag")
)

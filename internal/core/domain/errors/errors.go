package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// MalformedRecordError is returned by storage adapters when a stored record
// can not be decoded into a valid domain value.
type MalformedRecordError struct {
	key   string
	cause error
}

func NewMalformedRecordError(key string, cause error) *MalformedRecordError {
	return &MalformedRecordError{key: key, cause: cause}
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record '%s': %v", e.key, e.cause)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.cause
}

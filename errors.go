package dream

import "fmt"

// ConfigurationError indicates that a caller-supplied parameter is missing,
// empty, or out of range. Operations validate their inputs up front and
// return a ConfigurationError before doing any work.
type ConfigurationError struct {
	Msg string
}

func (e ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// Configf builds a ConfigurationError with a formatted message.
func Configf(format string, args ...interface{}) error {
	return ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// TypeMismatchError indicates that an argument has the wrong shape for the
// requested operation, e.g. a non-square matrix where a gene-by-gene matrix
// is required, or two matrices whose labels disagree.
type TypeMismatchError struct {
	Msg string
}

func (e TypeMismatchError) Error() string {
	return "type mismatch: " + e.Msg
}

// Mismatchf builds a TypeMismatchError with a formatted message.
func Mismatchf(format string, args ...interface{}) error {
	return TypeMismatchError{Msg: fmt.Sprintf(format, args...)}
}

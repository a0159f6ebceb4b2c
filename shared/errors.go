package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput      = errors.New("no input")
	ErrOutputExists = errors.New("output file already exists")
)

// InputError attributes a failure to one of the inputs of a batch.
type InputError struct {
	Path string
	Err  error
}

func (err *InputError) Error() string {
	return fmt.Sprintf("%s: %v", err.Path, err.Err)
}

func (err *InputError) Unwrap() error { return err.Err }

// ConfigMismatchError reports a decoded value that disagrees with the
// configured one. Err is the decoding error it was derived from.
type ConfigMismatchError struct {
	Param    string
	Expected string
	Found    string
	Path     string
	Err      error
}

func (err *ConfigMismatchError) Error() string {
	return fmt.Sprintf("`%v` config mismatch; expected: %v, found: %v, path: %v",
		err.Param, err.Expected, err.Found, err.Path)
}

func (err *ConfigMismatchError) Unwrap() error { return err.Err }

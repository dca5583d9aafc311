package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration marca variables requeridas ausentes o vacías.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrInvalidConfiguration marca variables presentes pero inutilizables.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// MissingConfigurationError nombra la variable requerida que falta.
type MissingConfigurationError struct {
	Variable string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required environment variable %s", e.Variable)
}

func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// InvalidConfigurationError nombra la variable con un valor no válido.
type InvalidConfigurationError struct {
	Variable string
	Err      error
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid environment variable %s: %v", e.Variable, e.Err)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func (e *InvalidConfigurationError) Unwrap() error {
	return e.Err
}

func invalid(variable string, err error) error {
	return &InvalidConfigurationError{Variable: variable, Err: err}
}

// Variables devuelve los nombres de todas las variables que fallaron, en orden.
func Variables(err error) []string {
	var names []string
	collect(err, &names)
	return names
}

func collect(err error, names *[]string) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *MissingConfigurationError:
		*names = append(*names, e.Variable)
		return
	case *InvalidConfigurationError:
		*names = append(*names, e.Variable)
		return
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collect(inner, names)
		}
		return
	}
	collect(errors.Unwrap(err), names)
}

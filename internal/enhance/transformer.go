// SPDX-License-Identifier: MPL-2.0

package enhance

import (
	"errors"
	"fmt"
)

type (
	// Transformer is the opaque bytecode transformation capability the
	// runner drives. Implementations keep an internal type registry:
	// DiscoverTypes populates it, Enhance queries it. The runner
	// guarantees every class is discovered before any class is enhanced.
	Transformer interface {
		// DiscoverTypes registers type information for the class. It is
		// called once per class in source-set order and has no result
		// beyond its side effect on the transformer's registry.
		DiscoverTypes(className string, code []byte) error

		// Enhance rewrites the class and returns the replacement
		// bytecode, or nil when the class needs no change. A nil result
		// is a normal outcome, not an error.
		Enhance(className string, code []byte) ([]byte, error)
	}

	// TransformationError is the recoverable failure class: one class
	// could not be transformed because its content is malformed or
	// unsupported. The runner isolates it and moves on to the next
	// class. Any other error from a Transformer is treated as the
	// transformer itself being broken and aborts the run.
	TransformationError struct {
		ClassName string
		Err       error
	}
)

func (e *TransformationError) Error() string {
	return fmt.Sprintf("transformation of %s failed: %v", e.ClassName, e.Err)
}

func (e *TransformationError) Unwrap() error {
	return e.Err
}

// NewTransformationError wraps err as a recoverable per-class failure.
func NewTransformationError(className string, err error) *TransformationError {
	return &TransformationError{ClassName: className, Err: err}
}

// isRecoverable reports whether err belongs to the recoverable
// per-class failure class.
func isRecoverable(err error) bool {
	var te *TransformationError
	return errors.As(err, &te)
}

// NopTransformer discovers nothing and changes nothing. It is the
// default transformer wired by the CLI so the selection and rewrite
// machinery can run end to end without a bytecode engine plugged in.
type NopTransformer struct{}

func (NopTransformer) DiscoverTypes(string, []byte) error { return nil }

func (NopTransformer) Enhance(string, []byte) ([]byte, error) { return nil, nil }

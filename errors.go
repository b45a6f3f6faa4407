package beans

import (
	"fmt"
	"reflect"
)

// IntrospectionError reports a type whose shape cannot be examined.
// The metadata cache never stores a failed type, so the next lookup retries.
type IntrospectionError struct {
	Type reflect.Type
	Err  error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("beans: cannot introspect %v: %v", e.Type, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

// ConstructionError reports that a fresh instance of Type could not be built.
type ConstructionError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("beans: cannot construct %v: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// InvalidArgumentError reports a required argument that is absent or of the wrong shape.
type InvalidArgumentError struct {
	Arg string
	Err error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("beans: invalid argument %s: %v", e.Arg, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/km-arc/go-inject/framework/metadata"
)

var (
	// ErrCircularDependency is wrapped when a constructor parameter leads back
	// to a type whose constructor is still running, or when field wiring
	// would build the same transient type again without passing a shared
	// instance. The message includes the chain.
	ErrCircularDependency = errors.New("container: circular dependency detected")

	// ErrNilInstance is returned when a nil value is registered or produced
	// by a constructor.
	ErrNilInstance = errors.New("container: nil instance")
)

// DuplicateBindingError is returned when a registration collides with an
// existing one for the same key. The first registration stays in place.
type DuplicateBindingError struct {
	// Kind is one of "singleton", "qualified", "singleton type", "qualified type".
	Kind      string
	Type      reflect.Type
	Qualifier metadata.Marker
}

// Error implements the error interface.
func (e DuplicateBindingError) Error() string {
	if e.Qualifier != nil {
		return fmt.Sprintf("container: duplicate %s binding for %s qualified by %v", e.Kind, e.Type, e.Qualifier)
	}
	return fmt.Sprintf("container: duplicate %s binding for %s", e.Kind, e.Type)
}

// InvalidQualifierError is returned when a marker is not a qualifier kind, or
// when a qualified type registration finds no qualifier on the concrete type.
type InvalidQualifierError struct {
	Type      reflect.Type
	Qualifier metadata.Marker
	Reason    string
}

// Error implements the error interface.
func (e InvalidQualifierError) Error() string {
	if e.Qualifier != nil {
		return fmt.Sprintf("container: invalid qualifier %v (%T) for %s: %s", e.Qualifier, e.Qualifier, e.Type, e.Reason)
	}
	return fmt.Sprintf("container: invalid qualifier for %s: %s", e.Type, e.Reason)
}

// InvalidBindingError is returned when a registered instance or concrete type
// cannot stand in for the requested type.
type InvalidBindingError struct {
	Type   reflect.Type
	Reason string
}

// Error implements the error interface.
func (e InvalidBindingError) Error() string {
	return fmt.Sprintf("container: invalid binding for %s: %s", e.Type, e.Reason)
}

// AmbiguousConstructorError is returned when more than one constructor of a
// type is eligible for injection.
type AmbiguousConstructorError struct {
	Type       reflect.Type
	Candidates int
}

// Error implements the error interface.
func (e AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("container: %d eligible constructors for %s", e.Candidates, e.Type)
}

// NoAccessibleConstructorError is returned when a type has no eligible
// constructor.
type NoAccessibleConstructorError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e NoAccessibleConstructorError) Error() string {
	return fmt.Sprintf("container: no accessible constructor for %s", e.Type)
}

// AmbiguousQualifierError is returned when the markers at a use-site match
// more than one qualified instance or qualified type.
type AmbiguousQualifierError struct {
	// Owner is the type declaring the parameter or field; nil for top-level
	// qualified lookups.
	Owner      reflect.Type
	Type       reflect.Type
	Qualifiers []metadata.Marker
}

// Error implements the error interface.
func (e AmbiguousQualifierError) Error() string {
	qs := make([]string, len(e.Qualifiers))
	for i, q := range e.Qualifiers {
		qs[i] = fmt.Sprint(q)
	}
	return fmt.Sprintf("container: ambiguous qualified binding for %s@%s: [%s]",
		e.Type, ownerName(e.Owner), strings.Join(qs, ", "))
}

// MissingDependencyError is returned when a constructor parameter or a field
// cannot be resolved. Cause holds the underlying failure, if any.
type MissingDependencyError struct {
	Owner reflect.Type
	// Name is the parameter or field name.
	Name  string
	Type  reflect.Type
	Cause error
}

// Error implements the error interface.
func (e MissingDependencyError) Error() string {
	msg := fmt.Sprintf("container: cannot resolve %s (%s) of %s", e.Name, e.Type, ownerName(e.Owner))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e MissingDependencyError) Unwrap() error { return e.Cause }

// ConstructionError is returned when a constructor fails, panics or returns
// nil.
type ConstructionError struct {
	Type  reflect.Type
	Cause error
}

// Error implements the error interface.
func (e ConstructionError) Error() string {
	return fmt.Sprintf("container: constructing %s: %v", e.Type, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ConstructionError) Unwrap() error { return e.Cause }

func ownerName(t reflect.Type) string {
	if t == nil {
		return "<root>"
	}
	return t.String()
}

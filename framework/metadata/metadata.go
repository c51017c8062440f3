// Package metadata describes how types are constructed and wired.
//
// Go has no runtime constructor reflection and no annotations, so the
// container does not discover constructors on its own. Instead a [Table] is
// populated at startup with one entry per type: its constructor functions,
// whether it is a singleton, and the markers attached to it. Struct fields are
// discovered with reflection and selected with the `inject` struct tag.
//
//	types := metadata.NewTable()
//	metadata.For[*NodeB](types).
//	    Singleton().
//	    Mark(metadata.Named("b")).
//	    Constructor(NewNodeB, metadata.Inject())
//
//	type Root struct {
//	    A Node `inject:"a"`  // qualified by metadata.Named("a")
//	    B Node `inject:"b"`
//	}
//
// The container only depends on the [Inspector] interface, so any other
// source of descriptors (generated code, a hand-written switch) can replace
// the table.
package metadata

import (
	"fmt"
	"reflect"
)

// Marker is a value attached to a type, a constructor parameter or a struct
// field. Markers are compared with ==, so marker types must be comparable.
type Marker any

// Qualifier is implemented by marker types that distinguish several bindings
// of the same declared type.
type Qualifier interface {
	Qualifier()
}

// Named is the built-in qualifier. Struct tag tokens that are not aliased
// resolve to Named values.
type Named string

// Qualifier implements Qualifier.
func (Named) Qualifier() {}

// String returns the quoted name.
func (n Named) String() string { return fmt.Sprintf("Named(%q)", string(n)) }

// Inspector exposes the construction metadata of types.
type Inspector interface {
	// Constructors returns every constructor declared for t, including the
	// implicit zero-value constructor where one exists.
	Constructors(t reflect.Type) []Constructor

	// InjectableFields returns the fields of t selected for post-construction
	// injection. t is the runtime type of a built instance.
	InjectableFields(t reflect.Type) []Field

	// IsQualifier reports whether markers of the given type are qualifiers.
	IsQualifier(markerType reflect.Type) bool

	// IsSingleton reports whether t is marked as a singleton.
	IsSingleton(t reflect.Type) bool

	// TypeMarkers returns the markers attached to t itself.
	TypeMarkers(t reflect.Type) []Marker
}

// Param describes one constructor parameter.
type Param struct {
	Name    string
	Type    reflect.Type
	Markers []Marker
}

// Constructor describes a function that builds a value of some type.
type Constructor struct {
	Func       reflect.Value
	Params     []Param
	Injectable bool
	Implicit   bool
}

// Accessible reports whether the constructor can be invoked.
func (c Constructor) Accessible() bool {
	return c.Func.IsValid() && !c.Func.IsNil()
}

// Call invokes the constructor with already-resolved arguments. A second
// error result from the underlying function is returned as err.
func (c Constructor) Call(args []reflect.Value) (reflect.Value, error) {
	results := c.Func.Call(args)
	if len(results) == 2 {
		if err, ok := results[1].Interface().(error); ok && err != nil {
			return reflect.Value{}, err
		}
	}
	return results[0], nil
}

// Field describes a struct field eligible for injection.
type Field struct {
	Name     string
	Index    int
	Type     reflect.Type
	Markers  []Marker
	Exported bool
}

// Type returns the reflect.Type of T. It works for interface types too:
//
//	metadata.Type[Node]()  // the interface, not a nil pointer
func Type[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var (
	qualifierType = Type[Qualifier]()
	errorType     = Type[error]()
)

package metadata

import (
	"errors"
	"fmt"
	"reflect"
)

// ConstructorOption configures a constructor during registration.
type ConstructorOption func(*Constructor) error

// Inject marks the constructor as explicitly injectable. Constructors with
// parameters are only considered when marked.
func Inject() ConstructorOption {
	return func(c *Constructor) error {
		c.Injectable = true
		return nil
	}
}

// Arg names parameter i and attaches markers to it. The name only shows up
// in error messages.
func Arg(i int, name string, markers ...Marker) ConstructorOption {
	return func(c *Constructor) error {
		if i < 0 || i >= len(c.Params) {
			return fmt.Errorf("metadata: argument index %d out of range [0,%d)", i, len(c.Params))
		}
		for _, m := range markers {
			if m == nil || !reflect.TypeOf(m).Comparable() {
				return fmt.Errorf("metadata: argument %d: marker %T is not comparable", i, m)
			}
		}
		if name != "" {
			c.Params[i].Name = name
		}
		c.Params[i].Markers = append(c.Params[i].Markers, markers...)
		return nil
	}
}

// Builder is a fluent helper around Table for a single type. The first
// failure is kept and returned by Err; later calls become no-ops.
type Builder struct {
	table *Table
	typ   reflect.Type
	err   error
}

// For starts describing T in table.
//
//	metadata.For[*Service](types).Singleton().Constructor(NewService, metadata.Inject())
func For[T any](table *Table) *Builder {
	return &Builder{table: table, typ: Type[T]()}
}

// Singleton marks the type as a singleton.
func (b *Builder) Singleton() *Builder {
	if b.err == nil {
		b.err = b.table.Singleton(b.typ)
	}
	return b
}

// Mark attaches markers to the type.
func (b *Builder) Mark(markers ...Marker) *Builder {
	if b.err == nil {
		b.err = b.table.Mark(b.typ, markers...)
	}
	return b
}

// Constructor registers a constructor for the type.
func (b *Builder) Constructor(fn any, opts ...ConstructorOption) *Builder {
	if b.err == nil {
		b.err = b.table.Constructor(b.typ, fn, opts...)
	}
	return b
}

// Type returns the described type.
func (b *Builder) Type() reflect.Type { return b.typ }

// Err returns the first error encountered.
func (b *Builder) Err() error { return b.err }

// Join runs each builder's Err and joins the failures.
func Join(builders ...*Builder) error {
	var errs []error
	for _, b := range builders {
		if err := b.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.typ, err))
		}
	}
	return errors.Join(errs...)
}

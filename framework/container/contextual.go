package container

import (
	"reflect"

	"github.com/km-arc/go-inject/framework/metadata"
)

// BindingBuilder implements the fluent binding API.
//
//	c.Bind(metadata.Type[Node]()).Qualified(metadata.Named("a")).To(metadata.Type[*NodeA]())
//	c.Bind(metadata.Type[Clock]()).ToInstance(systemClock{})
type BindingBuilder struct {
	container *Container
	requested reflect.Type
	qualifier metadata.Marker
}

// Bind starts a binding for the requested type.
func (c *Container) Bind(requested reflect.Type) *BindingBuilder {
	return &BindingBuilder{container: c, requested: requested}
}

// Qualified restricts the binding to use-sites carrying qualifier.
func (b *BindingBuilder) Qualified(qualifier metadata.Marker) *BindingBuilder {
	b.qualifier = qualifier
	return b
}

// To binds the requested type to a concrete type built lazily, at most once.
func (b *BindingBuilder) To(concrete reflect.Type) error {
	if b.qualifier != nil {
		return b.container.RegisterQualifiedType(b.requested, b.qualifier, concrete)
	}
	return b.container.RegisterSingletonType(b.requested, concrete)
}

// ToQualifiedType binds the requested type to concrete under the qualifier
// attached to concrete itself.
func (b *BindingBuilder) ToQualifiedType(concrete reflect.Type) error {
	return b.container.RegisterQualifiedTypeOf(b.requested, concrete)
}

// ToInstance binds the requested type to a pre-built value.
func (b *BindingBuilder) ToInstance(instance any) error {
	if b.qualifier != nil {
		return b.container.RegisterQualified(b.requested, b.qualifier, instance)
	}
	return b.container.RegisterSingleton(b.requested, instance)
}

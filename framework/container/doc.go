// Package container provides a dependency-injection container that builds
// fully wired object graphs from type descriptors.
//
// # Overview
//
// Given a type, the container selects its constructor, resolves every
// constructor parameter (recursively), calls the constructor, caches the
// result when the type is a singleton, and finally wires the fields tagged
// with `inject`. Construction metadata comes from a [metadata.Inspector],
// by default the [metadata.Table] returned by [Container.Types].
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Describe types: metadata.For[*Service](c.Types()).Singleton()
//  3. Register bindings (instances, singleton types, qualified types)
//  4. Resolve: svc, err := container.Resolve[*Service](c)
//
// # Bindings
//
//	// Pre-built singleton
//	c.RegisterSingleton(metadata.Type[*Config](), cfg)
//
//	// Pre-built qualified instance
//	c.RegisterQualified(metadata.Type[DB](), metadata.Named("replica"), replica)
//
//	// Interface → implementation, built once
//	c.RegisterSingletonType(metadata.Type[Clock](), metadata.Type[*systemClock]())
//
//	// Interface + qualifier → implementation, built once and memoized
//	c.RegisterQualifiedType(metadata.Type[Node](), metadata.Named("a"), metadata.Type[*NodeA]())
//
//	// Same, qualifier taken from the markers of the implementation
//	c.RegisterQualifiedTypeOf(metadata.Type[Node](), metadata.Type[*NodeB]())
//
//	// Fluent form
//	c.Bind(metadata.Type[Node]()).Qualified(metadata.Named("a")).To(metadata.Type[*NodeA]())
//
// # Constructors
//
// A type is built with the single constructor that is accessible and either
// marked with [metadata.Inject] or parameterless. Struct types without
// registered constructors have an implicit zero-value constructor. More than
// one candidate is an [AmbiguousConstructorError], none is a
// [NoAccessibleConstructorError].
//
// # Qualifiers
//
// Markers on a parameter or field select among several bindings of the same
// declared type. Pre-built qualified instances win over qualified types.
// When markers match several distinct bindings the result is an
// [AmbiguousQualifierError]; when they match nothing, the declared type is
// resolved as usual.
//
// # Cycles
//
// Singletons are stored before their fields are wired, so field references
// may form cycles:
//
//	type A struct{ B *B `inject:""` }
//	type B struct{ A *A `inject:""` }
//
// resolves when either one is a singleton. If only B is, resolving A builds
// A, then B, then a second A that reuses the cached B. A field cycle made only
// of transient types, and any constructor cycle, fails with
// [ErrCircularDependency] in the error chain.
//
// # Concurrency
//
// Resolve may be called from several goroutines. Store updates are atomic
// per key. Two goroutines resolving the same uncached singleton may both run
// its constructor; the first to publish wins and the other returns the
// published instance.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return metadata.For[*Mailer](app.Types()).Singleton().Err()
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container

package container

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/metadata"
)

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a Container.
type Option func(*Container)

// WithTable sets the descriptor table used for describing types. It also
// becomes the inspector unless WithInspector is given.
func WithTable(t *metadata.Table) Option {
	return func(c *Container) {
		c.types = t
	}
}

// WithInspector replaces the source of construction metadata.
func WithInspector(i metadata.Inspector) Option {
	return func(c *Container) {
		c.inspector = i
	}
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves types into fully wired instances.
//
// It holds four stores:
//   - singletons: built instances, one per type
//   - qualifieds: built instances per (type, qualifier)
//   - singletonTypes: requested type → concrete type to build once
//   - qualifiedTypes: (requested type, qualifier) → concrete type to build once
//
// All of them live as long as the container. A Container is safe for
// concurrent use; no lock is held while constructors run.
type Container struct {
	mu sync.RWMutex

	types     *metadata.Table
	inspector metadata.Inspector
	log       *zap.Logger

	singletons     map[reflect.Type]reflect.Value
	qualifieds     map[reflect.Type]map[metadata.Marker]reflect.Value
	singletonTypes map[reflect.Type]reflect.Type
	qualifiedTypes map[reflect.Type]map[metadata.Marker]reflect.Type
}

var containerType = reflect.TypeOf((*Container)(nil))

// New creates an empty container. The container registers itself as the
// singleton for *Container, so types can depend on it.
func New(opts ...Option) *Container {
	c := &Container{
		log:            zap.NewNop(),
		singletons:     make(map[reflect.Type]reflect.Value),
		qualifieds:     make(map[reflect.Type]map[metadata.Marker]reflect.Value),
		singletonTypes: make(map[reflect.Type]reflect.Type),
		qualifiedTypes: make(map[reflect.Type]map[metadata.Marker]reflect.Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.types == nil {
		c.types = metadata.NewTable()
	}
	if c.inspector == nil {
		c.inspector = c.types
	}
	c.singletons[containerType] = reflect.ValueOf(c)
	return c
}

// Types returns the descriptor table owned by the container.
func (c *Container) Types() *metadata.Table { return c.types }

// Inspector returns the metadata source used during resolution.
func (c *Container) Inspector() metadata.Inspector { return c.inspector }

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger { return c.log }

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterSingleton stores a pre-built instance for t.
//
//	c.RegisterSingleton(metadata.Type[*Config](), cfg)
func (c *Container) RegisterSingleton(t reflect.Type, instance any) error {
	v, err := instanceValue(t, instance)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.singletons[t]; exists {
		return DuplicateBindingError{Kind: "singleton", Type: t}
	}
	c.singletons[t] = v
	c.log.Debug("registered singleton", zap.Stringer("type", t))
	return nil
}

// RegisterQualified stores a pre-built instance for t under qualifier.
func (c *Container) RegisterQualified(t reflect.Type, qualifier metadata.Marker, instance any) error {
	if err := c.checkQualifier(t, qualifier); err != nil {
		return err
	}
	v, err := instanceValue(t, instance)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.qualifieds[t]
	if !ok {
		bucket = make(map[metadata.Marker]reflect.Value)
		c.qualifieds[t] = bucket
	}
	if _, exists := bucket[qualifier]; exists {
		return DuplicateBindingError{Kind: "qualified", Type: t, Qualifier: qualifier}
	}
	bucket[qualifier] = v
	c.log.Debug("registered qualified instance", zap.Stringer("type", t), zap.Any("qualifier", qualifier))
	return nil
}

// RegisterSingletonType makes concrete the implementation of requested and
// builds it at most once. Pass the same type twice to mark a type as a
// singleton without touching its metadata.
func (c *Container) RegisterSingletonType(requested, concrete reflect.Type) error {
	if err := checkConcrete(requested, concrete); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.singletonTypes[requested]; exists {
		return DuplicateBindingError{Kind: "singleton type", Type: requested}
	}
	c.singletonTypes[requested] = concrete
	c.log.Debug("registered singleton type",
		zap.Stringer("type", requested), zap.Stringer("concrete", concrete))
	return nil
}

// RegisterQualifiedType makes concrete the implementation of requested at
// use-sites carrying qualifier. The first instance built is memoized as a
// qualified instance.
func (c *Container) RegisterQualifiedType(requested reflect.Type, qualifier metadata.Marker, concrete reflect.Type) error {
	if err := checkConcrete(requested, concrete); err != nil {
		return err
	}
	if err := c.checkQualifier(requested, qualifier); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.qualifiedTypes[requested]
	if !ok {
		bucket = make(map[metadata.Marker]reflect.Type)
		c.qualifiedTypes[requested] = bucket
	}
	if _, exists := bucket[qualifier]; exists {
		return DuplicateBindingError{Kind: "qualified type", Type: requested, Qualifier: qualifier}
	}
	bucket[qualifier] = concrete
	c.log.Debug("registered qualified type",
		zap.Stringer("type", requested), zap.Any("qualifier", qualifier), zap.Stringer("concrete", concrete))
	return nil
}

// RegisterQualifiedTypeOf is RegisterQualifiedType with the qualifier taken
// from the markers attached to concrete. The first qualifier found is used.
func (c *Container) RegisterQualifiedTypeOf(requested, concrete reflect.Type) error {
	if concrete == nil {
		return InvalidBindingError{Type: requested, Reason: "nil concrete type"}
	}
	for _, m := range c.inspector.TypeMarkers(concrete) {
		if m != nil && c.inspector.IsQualifier(reflect.TypeOf(m)) {
			return c.RegisterQualifiedType(requested, m, concrete)
		}
	}
	return InvalidQualifierError{Type: concrete, Reason: "type carries no qualifier marker"}
}

func (c *Container) checkQualifier(t reflect.Type, qualifier metadata.Marker) error {
	if qualifier == nil {
		return InvalidQualifierError{Type: t, Reason: "nil marker"}
	}
	qt := reflect.TypeOf(qualifier)
	if !qt.Comparable() {
		return InvalidQualifierError{Type: t, Qualifier: qualifier, Reason: "marker type is not comparable"}
	}
	if !c.inspector.IsQualifier(qt) {
		return InvalidQualifierError{Type: t, Qualifier: qualifier, Reason: "marker type is not a qualifier"}
	}
	return nil
}

func instanceValue(t reflect.Type, instance any) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, InvalidBindingError{Reason: "nil type"}
	}
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w for %s", ErrNilInstance, t)
	}
	v := reflect.ValueOf(instance)
	if isNil(v) {
		return reflect.Value{}, fmt.Errorf("%w for %s", ErrNilInstance, t)
	}
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, InvalidBindingError{Type: t, Reason: fmt.Sprintf("%s is not assignable", v.Type())}
	}
	return v, nil
}

func checkConcrete(requested, concrete reflect.Type) error {
	if requested == nil || concrete == nil {
		return InvalidBindingError{Type: requested, Reason: "nil type"}
	}
	if !concrete.AssignableTo(requested) {
		return InvalidBindingError{Type: requested, Reason: fmt.Sprintf("%s is not assignable", concrete)}
	}
	return nil
}

// ── Lookups ───────────────────────────────────────────────────────────────────

// Instance returns the singleton stored for t, if any.
func (c *Container) Instance(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.singletons[t]
	return v, ok
}

// QualifiedInstance returns the instance stored for t under qualifier, if any.
func (c *Container) QualifiedInstance(t reflect.Type, qualifier metadata.Marker) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.qualifieds[t][qualifier]
	return v, ok
}

// Bound reports whether t has an instance or a type binding, qualified or not.
func (c *Container) Bound(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasInstance := c.singletons[t]
	_, hasType := c.singletonTypes[t]
	return hasInstance || hasType || len(c.qualifieds[t]) > 0 || len(c.qualifiedTypes[t]) > 0
}

// Resolved reports whether a singleton instance exists for t.
func (c *Container) Resolved(t reflect.Type) bool {
	_, ok := c.Instance(t)
	return ok
}

// ── Store helpers ─────────────────────────────────────────────────────────────

// promote stores v as the singleton for t unless one exists. It returns the
// stored instance and whether v was the one stored.
func (c *Container) promote(t reflect.Type, v reflect.Value) (reflect.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.singletons[t]; ok {
		return existing, false
	}
	c.singletons[t] = v
	c.log.Debug("promoted singleton", zap.Stringer("type", t))
	return v, true
}

// demote removes the singleton for t if it is still v.
func (c *Container) demote(t reflect.Type, v reflect.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.singletons[t]; ok && sameInstance(existing, v) {
		delete(c.singletons, t)
		c.log.Debug("rolled back singleton", zap.Stringer("type", t))
	}
}

// memoize stores v under (key.typ, key.qualifier) unless an instance exists.
// It returns the stored instance and whether v was the one stored.
func (c *Container) memoize(key qualifiedKey, v reflect.Value) (reflect.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.qualifieds[key.typ]
	if !ok {
		bucket = make(map[metadata.Marker]reflect.Value)
		c.qualifieds[key.typ] = bucket
	}
	if existing, ok := bucket[key.qualifier]; ok {
		return existing, false
	}
	bucket[key.qualifier] = v
	c.log.Debug("memoized qualified instance",
		zap.Stringer("type", key.typ), zap.Any("qualifier", key.qualifier))
	return v, true
}

// forget removes the qualified instance for key if it is still v.
func (c *Container) forget(key qualifiedKey, v reflect.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.qualifieds[key.typ][key.qualifier]; ok && sameInstance(existing, v) {
		delete(c.qualifieds[key.typ], key.qualifier)
	}
}

func (c *Container) singletonTypeFor(t reflect.Type) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	concrete, ok := c.singletonTypes[t]
	return concrete, ok
}

// isSingleton reports whether instances of t are shared: either the metadata
// says so or t is the concrete side of a singleton type binding.
func (c *Container) isSingleton(t reflect.Type) bool {
	if c.inspector.IsSingleton(t) {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, concrete := range c.singletonTypes {
		if concrete == t {
			return true
		}
	}
	return false
}

// sameInstance compares by identity for reference kinds and by value for
// comparable values. Values whose dynamic contents turn out not to be
// comparable count as distinct.
func sameInstance(a, b reflect.Value) (same bool) {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	}
	if !a.Type().Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a.Interface() == b.Interface()
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

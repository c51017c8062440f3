package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag that selects fields for injection.
const TagName = "inject"

var (
	// ErrNilType is returned when a nil reflect.Type is described.
	ErrNilType = errors.New("metadata: nil reflect.Type provided")

	// ErrInvalidConstructor is returned when a constructor does not have the
	// shape func(deps...) T or func(deps...) (T, error).
	ErrInvalidConstructor = errors.New("metadata: invalid constructor")
)

// entry holds everything declared for a single type.
type entry struct {
	singleton    bool
	markers      []Marker
	constructors []Constructor
}

// Table is an Inspector backed by descriptors registered at startup.
// It is safe for concurrent use.
type Table struct {
	mu         sync.RWMutex
	entries    map[reflect.Type]*entry
	qualifiers map[reflect.Type]bool
	aliases    map[string]Marker

	// fields caches InjectableFields results per type.
	fields sync.Map // map[reflect.Type][]Field
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		entries:    make(map[reflect.Type]*entry),
		qualifiers: make(map[reflect.Type]bool),
		aliases:    make(map[string]Marker),
	}
}

// ── Declaration ───────────────────────────────────────────────────────────────

// Singleton marks t as a singleton.
func (tb *Table) Singleton(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.entry(t).singleton = true
	return nil
}

// Mark attaches markers to t itself.
func (tb *Table) Mark(t reflect.Type, markers ...Marker) error {
	if t == nil {
		return ErrNilType
	}
	for _, m := range markers {
		if m == nil || !reflect.TypeOf(m).Comparable() {
			return fmt.Errorf("metadata: marker %T on %s is not comparable", m, t)
		}
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entry(t)
	e.markers = append(e.markers, markers...)
	return nil
}

// Constructor registers fn as a constructor of t. fn must be a function
// returning a value assignable to t, optionally followed by an error.
func (tb *Table) Constructor(t reflect.Type, fn any, opts ...ConstructorOption) error {
	if t == nil {
		return ErrNilType
	}
	if fn == nil {
		return fmt.Errorf("%w: nil function for %s", ErrInvalidConstructor, t)
	}

	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return fmt.Errorf("%w: %s is not a function", ErrInvalidConstructor, typ)
	}
	if typ.IsVariadic() {
		return fmt.Errorf("%w: variadic %s", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 {
		return fmt.Errorf("%w: %s must return (T) or (T, error)", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 2 && typ.Out(1) != errorType {
		return fmt.Errorf("%w: second return value of %s must be error", ErrInvalidConstructor, typ)
	}
	if !typ.Out(0).AssignableTo(t) {
		return fmt.Errorf("%w: %s returns %s, not assignable to %s", ErrInvalidConstructor, typ, typ.Out(0), t)
	}

	c := Constructor{
		Func:   val,
		Params: make([]Param, typ.NumIn()),
	}
	for i := range c.Params {
		c.Params[i] = Param{Name: fmt.Sprintf("arg%d", i), Type: typ.In(i)}
	}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return fmt.Errorf("constructor %s of %s: %w", typ, t, err)
		}
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entry(t)
	e.constructors = append(e.constructors, c)
	return nil
}

// DeclareQualifier marks markerType as a qualifier kind without requiring it
// to implement Qualifier.
func (tb *Table) DeclareQualifier(markerType reflect.Type) error {
	if markerType == nil {
		return ErrNilType
	}
	if !markerType.Comparable() {
		return fmt.Errorf("metadata: qualifier type %s is not comparable", markerType)
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.qualifiers[markerType] = true
	return nil
}

// Alias maps a struct tag token to marker. Tokens without an alias resolve to
// Named(token).
func (tb *Table) Alias(token string, marker Marker) error {
	if token == "" {
		return errors.New("metadata: empty alias token")
	}
	if marker == nil || !reflect.TypeOf(marker).Comparable() {
		return fmt.Errorf("metadata: alias %q: marker %T is not comparable", token, marker)
	}
	tb.mu.Lock()
	tb.aliases[token] = marker
	tb.mu.Unlock()

	// Aliases change how tags are read.
	tb.fields.Range(func(k, _ any) bool {
		tb.fields.Delete(k)
		return true
	})
	return nil
}

// entry returns the entry for t, creating it. Must hold mu.Lock.
func (tb *Table) entry(t reflect.Type) *entry {
	e, ok := tb.entries[t]
	if !ok {
		e = &entry{}
		tb.entries[t] = e
	}
	return e
}

// ── Inspector ─────────────────────────────────────────────────────────────────

// Constructors implements Inspector. Types without registered constructors
// get an implicit zero-value constructor when they are structs or pointers to
// structs.
func (tb *Table) Constructors(t reflect.Type) []Constructor {
	if t == nil {
		return nil
	}
	tb.mu.RLock()
	e, ok := tb.entries[t]
	var out []Constructor
	if ok && len(e.constructors) > 0 {
		out = make([]Constructor, len(e.constructors))
		copy(out, e.constructors)
	}
	tb.mu.RUnlock()

	if out != nil {
		return out
	}
	if c, ok := implicitConstructor(t); ok {
		return []Constructor{c}
	}
	return nil
}

func implicitConstructor(t reflect.Type) (Constructor, bool) {
	var build func() reflect.Value
	switch {
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		elem := t.Elem()
		build = func() reflect.Value { return reflect.New(elem) }
	case t.Kind() == reflect.Struct:
		build = func() reflect.Value { return reflect.New(t).Elem() }
	default:
		return Constructor{}, false
	}

	fnType := reflect.FuncOf(nil, []reflect.Type{t}, false)
	fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{build()}
	})
	return Constructor{Func: fn, Implicit: true}, true
}

// InjectableFields implements Inspector. Only direct fields of a pointer to
// struct carrying the inject tag are returned; unexported ones are reported
// with Exported set to false.
func (tb *Table) InjectableFields(t reflect.Type) []Field {
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := tb.fields.Load(t); ok {
		return cached.([]Field)
	}

	st := t.Elem()
	var fields []Field
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok {
			continue
		}
		fields = append(fields, Field{
			Name:     sf.Name,
			Index:    i,
			Type:     sf.Type,
			Markers:  tb.parseTag(tag),
			Exported: sf.IsExported(),
		})
	}

	tb.fields.Store(t, fields)
	return fields
}

func (tb *Table) parseTag(tag string) []Marker {
	var markers []Marker
	for _, token := range strings.Split(tag, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tb.mu.RLock()
		m, ok := tb.aliases[token]
		tb.mu.RUnlock()
		if !ok {
			m = Named(token)
		}
		markers = append(markers, m)
	}
	return markers
}

// IsQualifier implements Inspector.
func (tb *Table) IsQualifier(markerType reflect.Type) bool {
	if markerType == nil {
		return false
	}
	if markerType.Implements(qualifierType) {
		return true
	}
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return tb.qualifiers[markerType]
}

// IsSingleton implements Inspector.
func (tb *Table) IsSingleton(t reflect.Type) bool {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	e, ok := tb.entries[t]
	return ok && e.singleton
}

// TypeMarkers implements Inspector.
func (tb *Table) TypeMarkers(t reflect.Type) []Marker {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	e, ok := tb.entries[t]
	if !ok || len(e.markers) == 0 {
		return nil
	}
	out := make([]Marker, len(e.markers))
	copy(out, e.markers)
	return out
}

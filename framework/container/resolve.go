package container

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/metadata"
)

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns a fully wired instance of t.
//
// Singletons come from the cache. Otherwise the single eligible constructor
// of t is called with recursively resolved arguments, the result is promoted
// to the singleton store when t is a singleton, and its injectable fields are
// wired last. Because promotion happens before wiring, field references may
// form cycles as long as one type on the cycle is shared; constructor
// parameters may not form cycles at all.
func (c *Container) Resolve(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, InvalidBindingError{Reason: "nil type"}
	}
	return c.resolve(t, &resolution{}, nil)
}

// ResolveQualified resolves t the way a parameter or field carrying markers
// would be: a matching qualified binding wins, otherwise t is resolved
// normally.
func (c *Container) ResolveQualified(t reflect.Type, markers ...metadata.Marker) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, InvalidBindingError{Reason: "nil type"}
	}
	return c.resolveDependency(nil, t, markers, &resolution{})
}

// resolution tracks, within one top-level call, the types whose
// constructors are running and the instances whose fields are being wired.
type resolution struct {
	stack  []reflect.Type
	wiring []wiringFrame
}

// wiringFrame is one instance in the middle of field injection. Shared
// frames are already published, so a cycle passing through one ends at the
// cached instance.
type wiringFrame struct {
	typ    reflect.Type
	shared bool
}

func (r *resolution) active(t reflect.Type) bool {
	for _, s := range r.stack {
		if s == t {
			return true
		}
	}
	return false
}

func (r *resolution) push(t reflect.Type) { r.stack = append(r.stack, t) }
func (r *resolution) pop()                { r.stack = r.stack[:len(r.stack)-1] }

func (r *resolution) enterWiring(t reflect.Type, shared bool) {
	r.wiring = append(r.wiring, wiringFrame{typ: t, shared: shared})
}
func (r *resolution) leaveWiring() { r.wiring = r.wiring[:len(r.wiring)-1] }

// transientCycle returns the chain of wiring frames that leads back to t
// through unshared instances only. Building t again on such a path would
// never stop.
func (r *resolution) transientCycle(t reflect.Type) ([]reflect.Type, bool) {
	for i := len(r.wiring) - 1; i >= 0; i-- {
		w := r.wiring[i]
		if w.shared {
			return nil, false
		}
		if w.typ == t {
			chain := make([]reflect.Type, 0, len(r.wiring)-i)
			for _, f := range r.wiring[i:] {
				chain = append(chain, f.typ)
			}
			return chain, true
		}
	}
	return nil, false
}

func circularError(chain []reflect.Type, t reflect.Type) error {
	names := make([]string, len(chain)+1)
	for i, s := range chain {
		names[i] = s.String()
	}
	names[len(chain)] = t.String()
	return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(names, " -> "))
}

// qualifiedKey addresses a bucket of the qualified instance store.
type qualifiedKey struct {
	typ       reflect.Type
	qualifier metadata.Marker
}

// resolve builds t. When memo is set, the built instance is also published
// as a qualified instance under memo before its fields are wired.
func (c *Container) resolve(t reflect.Type, r *resolution, memo *qualifiedKey) (reflect.Value, error) {
	if inst, ok := c.Instance(t); ok {
		if memo != nil {
			inst, _ = c.memoize(*memo, inst)
		}
		return inst, nil
	}

	if concrete, ok := c.singletonTypeFor(t); ok && concrete != t {
		inst, err := c.resolve(concrete, r, memo)
		if err != nil {
			return reflect.Value{}, err
		}
		inst, _ = c.promote(t, inst)
		return inst, nil
	}

	if r.active(t) {
		return reflect.Value{}, circularError(r.stack, t)
	}
	singleton := c.isSingleton(t)
	if !singleton && memo == nil {
		if chain, ok := r.transientCycle(t); ok {
			return reflect.Value{}, circularError(chain, t)
		}
	}

	inst, err := c.build(t, r)
	if err != nil {
		return reflect.Value{}, err
	}

	var promoted, memoized bool
	if singleton {
		var won bool
		if inst, won = c.promote(t, inst); !won {
			// Another goroutine published first; its instance is the one
			// being wired.
			if memo != nil {
				inst, _ = c.memoize(*memo, inst)
			}
			return inst, nil
		}
		promoted = true
	}
	if memo != nil {
		stored, won := c.memoize(*memo, inst)
		switch {
		case won:
			memoized = true
		case !promoted:
			return stored, nil
		}
	}

	r.enterWiring(t, promoted || memoized)
	err = c.injectFields(inst, r)
	r.leaveWiring()
	if err != nil {
		if promoted {
			c.demote(t, inst)
		}
		if memoized {
			c.forget(*memo, inst)
		}
		return reflect.Value{}, err
	}

	c.log.Debug("resolved", zap.Stringer("type", t), zap.Bool("singleton", promoted))
	return inst, nil
}

// build selects a constructor for t and calls it with resolved arguments.
// Only this phase is guarded by the constructor stack; field wiring happens
// after t has left it.
func (c *Container) build(t reflect.Type, r *resolution) (reflect.Value, error) {
	r.push(t)
	defer r.pop()

	ctor, err := c.selectConstructor(t)
	if err != nil {
		return reflect.Value{}, err
	}

	args := make([]reflect.Value, len(ctor.Params))
	for i, p := range ctor.Params {
		v, err := c.resolveDependency(t, p.Type, p.Markers, r)
		if err != nil {
			return reflect.Value{}, MissingDependencyError{Owner: t, Name: p.Name, Type: p.Type, Cause: err}
		}
		args[i] = v
	}
	return c.construct(t, ctor, args)
}

// resolveDependency produces a value for a parameter or field declared as t
// with the given markers on owner.
func (c *Container) resolveDependency(owner, t reflect.Type, markers []metadata.Marker, r *resolution) (reflect.Value, error) {
	v, ok, err := c.matchQualified(owner, t, markers, r)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		if v, err = c.resolve(t, r, nil); err != nil {
			return reflect.Value{}, err
		}
	}
	if isNil(v) {
		return reflect.Value{}, ErrNilInstance
	}
	return v, nil
}

// selectConstructor picks the single constructor of t that is accessible and
// either explicitly injectable or parameterless.
func (c *Container) selectConstructor(t reflect.Type) (metadata.Constructor, error) {
	var candidates []metadata.Constructor
	for _, ctor := range c.inspector.Constructors(t) {
		if !ctor.Injectable && len(ctor.Params) > 0 {
			continue
		}
		if !ctor.Accessible() {
			continue
		}
		candidates = append(candidates, ctor)
	}

	switch len(candidates) {
	case 0:
		return metadata.Constructor{}, NoAccessibleConstructorError{Type: t}
	case 1:
		return candidates[0], nil
	default:
		return metadata.Constructor{}, AmbiguousConstructorError{Type: t, Candidates: len(candidates)}
	}
}

// construct invokes ctor. Returned errors, panics and nil results become a
// ConstructionError.
func (c *Container) construct(t reflect.Type, ctor metadata.Constructor, args []reflect.Value) (inst reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			inst = reflect.Value{}
			cause := fmt.Errorf("panic: %v", rec)
			if e, ok := rec.(error); ok {
				cause = fmt.Errorf("panic: %w", e)
			}
			err = ConstructionError{Type: t, Cause: cause}
		}
	}()

	inst, err = ctor.Call(args)
	if err != nil {
		return reflect.Value{}, ConstructionError{Type: t, Cause: err}
	}
	if isNil(inst) {
		return reflect.Value{}, ConstructionError{Type: t, Cause: ErrNilInstance}
	}
	// Constructors may declare an interface result; keep the dynamic value.
	if inst.Kind() == reflect.Interface {
		inst = inst.Elem()
	}
	return inst, nil
}

// ── Generic helpers ───────────────────────────────────────────────────────────

// Resolve is a generic helper around Container.Resolve.
//
//	svc, err := container.Resolve[*UserService](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := metadata.Type[T]()

	v, err := c.Resolve(t)
	if err != nil {
		return zero, err
	}
	out, ok := v.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("container: cannot convert %s to %s", v.Type(), t)
	}
	return out, nil
}

// ResolveQualified is a generic helper around Container.ResolveQualified.
//
//	a, err := container.ResolveQualified[Node](c, metadata.Named("a"))
func ResolveQualified[T any](c *Container, markers ...metadata.Marker) (T, error) {
	var zero T
	t := metadata.Type[T]()

	v, err := c.ResolveQualified(t, markers...)
	if err != nil {
		return zero, err
	}
	out, ok := v.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("container: cannot convert %s to %s", v.Type(), t)
	}
	return out, nil
}

// MustResolve is like Resolve but panics on failure. Meant for bootstrap code
// where a missing binding is a programming error.
func MustResolve[T any](c *Container) T {
	out, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return out
}

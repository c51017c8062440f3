package container

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// InjectMembers wires the injectable fields of an instance built outside the
// container. target must be a non-nil pointer to a struct.
//
//	h := &Handler{}
//	if err := c.InjectMembers(h); err != nil { ... }
func (c *Container) InjectMembers(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return InvalidBindingError{Type: reflect.TypeOf(target), Reason: "InjectMembers needs a non-nil pointer to a struct"}
	}
	return c.injectFields(v, &resolution{})
}

// injectFields resolves every accessible injectable field of inst and
// assigns it in place. The first failure aborts the wiring.
func (c *Container) injectFields(inst reflect.Value, r *resolution) error {
	owner := inst.Type()
	fields := c.inspector.InjectableFields(owner)
	if len(fields) == 0 || owner.Kind() != reflect.Pointer || owner.Elem().Kind() != reflect.Struct {
		return nil
	}

	target := inst.Elem()
	for _, f := range fields {
		if !f.Exported {
			c.log.Debug("skipping unexported injectable field",
				zap.Stringer("type", owner), zap.String("field", f.Name))
			continue
		}
		field := target.Field(f.Index)
		if !field.CanSet() {
			continue
		}

		v, err := c.resolveDependency(owner, f.Type, f.Markers, r)
		if err != nil {
			return MissingDependencyError{Owner: owner, Name: f.Name, Type: f.Type, Cause: err}
		}
		if !v.Type().AssignableTo(f.Type) {
			return MissingDependencyError{
				Owner: owner, Name: f.Name, Type: f.Type,
				Cause: fmt.Errorf("container: %s is not assignable to %s", v.Type(), f.Type),
			}
		}
		field.Set(v)
	}
	return nil
}

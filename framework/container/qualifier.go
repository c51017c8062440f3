package container

import (
	"reflect"

	"github.com/km-arc/go-inject/framework/metadata"
)

// matchQualified looks for a qualified binding of t matching the markers
// found at a use-site on owner. ok is false when no marker matches anything,
// in which case the caller falls back to resolving t itself.
//
// Pre-built qualified instances are consulted first. Failing that, a
// qualified type binding is built and memoized under the matched qualifier.
// More than one distinct match in either store is an AmbiguousQualifierError.
func (c *Container) matchQualified(owner, t reflect.Type, markers []metadata.Marker, r *resolution) (v reflect.Value, ok bool, err error) {
	if len(markers) == 0 {
		return reflect.Value{}, false, nil
	}

	instances, matched := c.qualifiedInstancesFor(t, markers)
	switch len(instances) {
	case 0:
	case 1:
		return instances[0], true, nil
	default:
		return reflect.Value{}, false, AmbiguousQualifierError{Owner: owner, Type: t, Qualifiers: matched}
	}

	concrete, qualifier, matched := c.qualifiedTypesFor(t, markers)
	switch len(concrete) {
	case 0:
		return reflect.Value{}, false, nil
	case 1:
		inst, err := c.resolve(concrete[0], r, &qualifiedKey{typ: t, qualifier: qualifier})
		if err != nil {
			return reflect.Value{}, false, err
		}
		return inst, true, nil
	default:
		return reflect.Value{}, false, AmbiguousQualifierError{Owner: owner, Type: t, Qualifiers: matched}
	}
}

// qualifiedInstancesFor returns the distinct instances of t registered under
// any of markers, and the markers that matched.
func (c *Container) qualifiedInstancesFor(t reflect.Type, markers []metadata.Marker) ([]reflect.Value, []metadata.Marker) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.qualifieds[t]
	if len(bucket) == 0 {
		return nil, nil
	}

	var (
		found   []reflect.Value
		matched []metadata.Marker
	)
	for _, m := range markers {
		if !usableMarker(m) {
			continue
		}
		v, ok := bucket[m]
		if !ok {
			continue
		}
		matched = append(matched, m)
		if !containsInstance(found, v) {
			found = append(found, v)
		}
	}
	return found, matched
}

// qualifiedTypesFor returns the distinct concrete types bound to t under any
// of markers, the qualifier of the last match, and every matching marker.
func (c *Container) qualifiedTypesFor(t reflect.Type, markers []metadata.Marker) ([]reflect.Type, metadata.Marker, []metadata.Marker) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.qualifiedTypes[t]
	if len(bucket) == 0 {
		return nil, nil, nil
	}

	var (
		found     []reflect.Type
		qualifier metadata.Marker
		matched   []metadata.Marker
	)
	for _, m := range markers {
		if !usableMarker(m) {
			continue
		}
		concrete, ok := bucket[m]
		if !ok {
			continue
		}
		matched = append(matched, m)
		qualifier = m
		if !containsType(found, concrete) {
			found = append(found, concrete)
		}
	}
	return found, qualifier, matched
}

func usableMarker(m metadata.Marker) bool {
	return m != nil && reflect.TypeOf(m).Comparable()
}

func containsInstance(vs []reflect.Value, v reflect.Value) bool {
	for _, x := range vs {
		if sameInstance(x, v) {
			return true
		}
	}
	return false
}

func containsType(ts []reflect.Type, t reflect.Type) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

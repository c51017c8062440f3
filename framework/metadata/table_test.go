package metadata_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/metadata"
)

type widget struct {
	Name string
}

type gadget struct {
	Widget  *widget `inject:""`
	Primary *widget `inject:"primary, backup"`
	Spare   *widget `inject:"main"`
	Plain   *widget
	hidden  *widget `inject:""`
}

type part interface{ ID() int }

func (w *widget) ID() int { return len(w.Name) }

type tag string

type custom struct{}

func (custom) Qualifier() {}

func newWidget() *widget { return &widget{Name: "ctor"} }

func TestType(t *testing.T) {
	assert.Equal(t, reflect.Interface, metadata.Type[part]().Kind())
	assert.Equal(t, reflect.TypeOf(&widget{}), metadata.Type[*widget]())
	assert.Equal(t, reflect.TypeOf(0), metadata.Type[int]())
}

func TestNamed(t *testing.T) {
	var q metadata.Qualifier = metadata.Named("a")
	assert.NotNil(t, q)
	assert.Equal(t, `Named("a")`, metadata.Named("a").String())
	assert.Equal(t, metadata.Marker(metadata.Named("a")), metadata.Marker(metadata.Named("a")))
}

func TestTable_Singleton(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()

	assert.False(t, tb.IsSingleton(typ))
	require.NoError(t, tb.Singleton(typ))
	assert.True(t, tb.IsSingleton(typ))
	assert.False(t, tb.IsSingleton(metadata.Type[widget]()))

	assert.ErrorIs(t, tb.Singleton(nil), metadata.ErrNilType)
}

func TestTable_Mark(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()

	assert.Empty(t, tb.TypeMarkers(typ))
	require.NoError(t, tb.Mark(typ, metadata.Named("a"), tag("x")))
	require.NoError(t, tb.Mark(typ, custom{}))

	assert.Equal(t, []metadata.Marker{metadata.Named("a"), tag("x"), custom{}}, tb.TypeMarkers(typ))

	err := tb.Mark(typ, []string{"not comparable"})
	assert.Error(t, err)
	assert.Error(t, tb.Mark(typ, nil))
	assert.Len(t, tb.TypeMarkers(typ), 3)
}

func TestTable_TypeMarkersReturnsCopy(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()
	require.NoError(t, tb.Mark(typ, metadata.Named("a")))

	markers := tb.TypeMarkers(typ)
	markers[0] = metadata.Named("changed")

	assert.Equal(t, []metadata.Marker{metadata.Named("a")}, tb.TypeMarkers(typ))
}

func TestTable_IsQualifier(t *testing.T) {
	tb := metadata.NewTable()

	assert.True(t, tb.IsQualifier(metadata.Type[metadata.Named]()))
	assert.True(t, tb.IsQualifier(metadata.Type[custom]()))
	assert.False(t, tb.IsQualifier(metadata.Type[tag]()))
	assert.False(t, tb.IsQualifier(nil))

	require.NoError(t, tb.DeclareQualifier(metadata.Type[tag]()))
	assert.True(t, tb.IsQualifier(metadata.Type[tag]()))

	assert.Error(t, tb.DeclareQualifier(metadata.Type[[]string]()))
	assert.ErrorIs(t, tb.DeclareQualifier(nil), metadata.ErrNilType)
}

func TestTable_Constructor(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()

	require.NoError(t, tb.Constructor(typ, newWidget))

	ctors := tb.Constructors(typ)
	require.Len(t, ctors, 1)
	assert.False(t, ctors[0].Injectable)
	assert.False(t, ctors[0].Implicit)
	assert.True(t, ctors[0].Accessible())
	assert.Empty(t, ctors[0].Params)

	v, err := ctors[0].Call(nil)
	require.NoError(t, err)
	assert.Equal(t, "ctor", v.Interface().(*widget).Name)
}

func TestTable_ConstructorParams(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*gadget]()
	fn := func(w *widget, p part) (*gadget, error) { return &gadget{Widget: w}, nil }

	require.NoError(t, tb.Constructor(typ, fn, metadata.Inject(), metadata.Arg(1, "part", metadata.Named("b"))))

	ctors := tb.Constructors(typ)
	require.Len(t, ctors, 1)
	assert.True(t, ctors[0].Injectable)
	assert.Equal(t, []metadata.Param{
		{Name: "arg0", Type: metadata.Type[*widget]()},
		{Name: "part", Type: metadata.Type[part](), Markers: []metadata.Marker{metadata.Named("b")}},
	}, ctors[0].Params)
}

func TestTable_ConstructorForInterface(t *testing.T) {
	tb := metadata.NewTable()

	require.NoError(t, tb.Constructor(metadata.Type[part](), newWidget))
	require.Len(t, tb.Constructors(metadata.Type[part]()), 1)
}

func TestTable_ConstructorErrorResult(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()
	boom := errors.New("boom")
	require.NoError(t, tb.Constructor(typ, func() (*widget, error) { return nil, boom }))

	_, err := tb.Constructors(typ)[0].Call(nil)
	assert.ErrorIs(t, err, boom)
}

// widgetError implements error with a value receiver, so neither it nor a
// pointer to it is a valid second constructor result.
type widgetError struct{}

func (widgetError) Error() string { return "widget failed" }

func TestTable_ConstructorRejectsInvalidShapes(t *testing.T) {
	typ := metadata.Type[*widget]()

	tests := []struct {
		name string
		fn   any
	}{
		{name: "nil", fn: nil},
		{name: "not a function", fn: 42},
		{name: "no results", fn: func() {}},
		{name: "three results", fn: func() (*widget, int, error) { return nil, 0, nil }},
		{name: "second result not error", fn: func() (*widget, int) { return nil, 0 }},
		{name: "second result concrete error", fn: func() (*widget, widgetError) { return nil, widgetError{} }},
		{name: "second result error pointer", fn: func() (*widget, *widgetError) { return nil, nil }},
		{name: "wrong result type", fn: func() *gadget { return nil }},
		{name: "variadic", fn: func(ws ...*widget) *widget { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := metadata.NewTable()
			err := tb.Constructor(typ, tt.fn)
			assert.ErrorIs(t, err, metadata.ErrInvalidConstructor)
			assert.Len(t, tb.Constructors(typ), 1, "only the implicit constructor should remain")
			assert.True(t, tb.Constructors(typ)[0].Implicit)
		})
	}
}

func TestTable_ConstructorOptionErrors(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*widget]()

	err := tb.Constructor(typ, newWidget, metadata.Arg(0, "missing"))
	assert.ErrorContains(t, err, "out of range")

	fn := func(w *widget) *widget { return w }
	err = tb.Constructor(typ, fn, metadata.Arg(0, "w", []int{1}))
	assert.ErrorContains(t, err, "not comparable")

	assert.True(t, tb.Constructors(typ)[0].Implicit)
}

func TestTable_ImplicitConstructors(t *testing.T) {
	tb := metadata.NewTable()

	ptr := tb.Constructors(metadata.Type[*widget]())
	require.Len(t, ptr, 1)
	assert.True(t, ptr[0].Implicit)
	a, err := ptr[0].Call(nil)
	require.NoError(t, err)
	b, err := ptr[0].Call(nil)
	require.NoError(t, err)
	assert.NotSame(t, a.Interface(), b.Interface())

	val := tb.Constructors(metadata.Type[widget]())
	require.Len(t, val, 1)
	v, err := val[0].Call(nil)
	require.NoError(t, err)
	assert.Equal(t, widget{}, v.Interface())

	assert.Empty(t, tb.Constructors(metadata.Type[part]()))
	assert.Empty(t, tb.Constructors(metadata.Type[int]()))
	assert.Empty(t, tb.Constructors(metadata.Type[*int]()))
	assert.Nil(t, tb.Constructors(nil))
}

func TestTable_InjectableFields(t *testing.T) {
	tb := metadata.NewTable()

	fields := tb.InjectableFields(metadata.Type[*gadget]())
	require.Len(t, fields, 4)

	assert.Equal(t, metadata.Field{
		Name: "Widget", Index: 0, Type: metadata.Type[*widget](), Exported: true,
	}, fields[0])
	assert.Equal(t, []metadata.Marker{metadata.Named("primary"), metadata.Named("backup")}, fields[1].Markers)
	assert.Equal(t, []metadata.Marker{metadata.Named("main")}, fields[2].Markers)
	assert.Equal(t, "hidden", fields[3].Name)
	assert.Equal(t, 4, fields[3].Index)
	assert.False(t, fields[3].Exported)

	assert.Empty(t, tb.InjectableFields(metadata.Type[gadget]()))
	assert.Empty(t, tb.InjectableFields(metadata.Type[*widget]()))
	assert.Empty(t, tb.InjectableFields(nil))
}

func TestTable_AliasChangesTagReading(t *testing.T) {
	tb := metadata.NewTable()
	typ := metadata.Type[*gadget]()

	before := tb.InjectableFields(typ)
	assert.Equal(t, []metadata.Marker{metadata.Named("main")}, before[2].Markers)

	require.NoError(t, tb.Alias("main", custom{}))

	after := tb.InjectableFields(typ)
	assert.Equal(t, []metadata.Marker{custom{}}, after[2].Markers)

	assert.Error(t, tb.Alias("", custom{}))
	assert.Error(t, tb.Alias("x", nil))
	assert.Error(t, tb.Alias("x", []int{}))
}

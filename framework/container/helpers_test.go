package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/metadata"
)

// Shared test types and constructors used across test files.

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

func newTestDatabase(cfg *testConfig, log *testLogger) *testDatabase {
	return &testDatabase{Config: cfg, Logger: log}
}

type testService interface {
	Name() string
}

type testUserService struct {
	DB *testDatabase `inject:""`
}

func (s *testUserService) Name() string { return "user" }

type testOrderService struct {
	Logger *testLogger `inject:""`
}

func (s *testOrderService) Name() string { return "order" }

// testCycleA and testCycleB reference each other through fields.
type testCycleA struct {
	B *testCycleB `inject:""`
}

type testCycleB struct {
	A *testCycleA `inject:""`
}

// testCtorA and testCtorB reference each other through constructors.
type testCtorA struct{ B *testCtorB }
type testCtorB struct{ A *testCtorA }

func newTestCtorA(b *testCtorB) *testCtorA { return &testCtorA{B: b} }
func newTestCtorB(a *testCtorA) *testCtorB { return &testCtorB{A: a} }

// testNode has two implementations selected by qualifier.
type testNode interface {
	ID() string
}

type testNodeA struct{ Leaf *testLogger `inject:""` }
type testNodeB struct{ Leaf *testLogger `inject:""` }

func (*testNodeA) ID() string { return "a" }
func (*testNodeB) ID() string { return "b" }

type testTree struct {
	A testNode `inject:"a"`
	B testNode `inject:"b"`
}

// primary is a custom qualifier kind.
type primary struct{}

func (primary) Qualifier() {}

// label is a marker type that is not a qualifier.
type label string

var errBoom = errors.New("boom")

var (
	loggerType   = metadata.Type[*testLogger]()
	configType   = metadata.Type[*testConfig]()
	databaseType = metadata.Type[*testDatabase]()
	serviceType  = metadata.Type[testService]()
	userType     = metadata.Type[*testUserService]()
	orderType    = metadata.Type[*testOrderService]()
	nodeType     = metadata.Type[testNode]()
	nodeAType    = metadata.Type[*testNodeA]()
	nodeBType    = metadata.Type[*testNodeB]()
)

// mustDescribe calls t.Fatal if any builder failed.
func mustDescribe(t *testing.T, builders ...*metadata.Builder) {
	t.Helper()
	require.NoError(t, metadata.Join(builders...))
}

// newQualifiedTree returns a container with testNodeA and testNodeB bound to
// testNode under Named("a") and Named("b").
func newQualifiedTree(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	require.NoError(t, c.RegisterQualifiedType(nodeType, metadata.Named("a"), nodeAType))
	require.NoError(t, c.RegisterQualifiedType(nodeType, metadata.Named("b"), nodeBType))
	return c
}

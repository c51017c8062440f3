// Package demo wires a small object graph through the container: a singleton
// Root holding two qualified Node implementations that reference each other
// through fields, and transient Leaf values pointing back at Root.
package demo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/km-arc/go-inject/framework/metadata"
)

// Node is implemented by NodeA and NodeB.
type Node interface {
	Name() string
}

// Root holds one Node of each flavor.
type Root struct {
	A Node `inject:"a"`
	B Node `inject:"b"`
}

func (r *Root) String() string {
	return fmt.Sprintf("root(%s, %s)", r.A.Name(), r.B.Name())
}

// NodeA is built with its implicit constructor and wired through fields only.
type NodeA struct {
	Leaf *Leaf `inject:""`
	B    Node  `inject:"b"`
}

func (n *NodeA) Name() string {
	if n.B == nil {
		return fmt.Sprintf("nodeA(%s)", n.Leaf)
	}
	return fmt.Sprintf("nodeAWithB(%s)", n.Leaf)
}

// NodeB takes its Leaf through the constructor and its sibling through a field.
type NodeB struct {
	leaf *Leaf
	A    Node `inject:"a"`
}

func NewNodeB(leaf *Leaf) *NodeB {
	return &NodeB{leaf: leaf}
}

func (n *NodeB) Name() string {
	if n.A == nil {
		return fmt.Sprintf("nodeB(%s)", n.leaf)
	}
	return fmt.Sprintf("nodeBWithA(%s)", n.leaf)
}

// Leaf is transient: every resolution produces a new one with a fresh ID.
type Leaf struct {
	ID   uuid.UUID
	Root *Root `inject:""`
}

func NewLeaf() *Leaf {
	return &Leaf{ID: uuid.New()}
}

func (l *Leaf) String() string {
	short := l.ID.String()[:8]
	if l.Root == nil {
		return "leaf-" + short
	}
	return "leafwithroot-" + short
}

// Ia and Ib depend on each other through their constructors, which the
// container refuses to build.
type Ia struct{ B *Ib }

func NewIa(b *Ib) *Ia { return &Ia{B: b} }

type Ib struct{ A *Ia }

func NewIb(a *Ia) *Ib { return &Ib{A: a} }

// Describe registers the metadata of every demo type.
func Describe(types *metadata.Table) error {
	return metadata.Join(
		metadata.For[*Root](types).Singleton(),
		metadata.For[*NodeA](types).Singleton().Mark(metadata.Named("a")),
		metadata.For[*NodeB](types).Singleton().Mark(metadata.Named("b")).
			Constructor(NewNodeB, metadata.Inject(), metadata.Arg(0, "leaf")),
		metadata.For[*Leaf](types).Constructor(NewLeaf),
		metadata.For[*Ia](types).Singleton().Mark(metadata.Named("Ia")).
			Constructor(NewIa, metadata.Inject(), metadata.Arg(0, "b")),
		metadata.For[*Ib](types).Singleton().Mark(metadata.Named("Ib")).
			Constructor(NewIb, metadata.Inject(), metadata.Arg(0, "a")),
	)
}

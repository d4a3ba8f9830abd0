package graph

import (
	"errors"
	"fmt"
)

// Time is a simulated duration in abstract time units
type Time int64

// Unreached marks a node that no compromise has arrived at yet
const Unreached Time = -1

var (
	// ErrResourceExhausted is returned when a network is too large to build
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrNodeOutOfRange is returned when a record names a computer outside [0, N)
	ErrNodeOutOfRange = errors.New("node out of range")
)

// Node represents a computer in the network
type Node struct {
	ID             int  `json:"id"`             // Index in [0, N)
	Clearance      int  `json:"clearance"`      // Security clearance level
	ActivationCost Time `json:"activationCost"` // Paid once when the computer is first compromised
}

// Edge represents an undirected connection between two computers
type Edge struct {
	A    int  `json:"a"`
	B    int  `json:"b"`
	Cost Time `json:"cost"` // Traversal time, paid on every hop
}

// Adjacent is one entry of a node's adjacency list
type Adjacent struct {
	Neighbor int
	Cost     Time
}

// Limits caps the size of a network a single query may build.
// A zero field means no limit.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

func (l Limits) check(nodes, edges int) error {
	if l.MaxNodes > 0 && nodes > l.MaxNodes {
		return fmt.Errorf("%w: %d computers exceeds limit of %d", ErrResourceExhausted, nodes, l.MaxNodes)
	}
	if l.MaxEdges > 0 && edges > l.MaxEdges {
		return fmt.Errorf("%w: %d connections exceeds limit of %d", ErrResourceExhausted, edges, l.MaxEdges)
	}
	return nil
}

// CanReach reports whether a compromised node u may spread to v.
// The rule is directional: it is evaluated from the compromised side.
func CanReach(u, v Node) bool {
	return u.Clearance+1 >= v.Clearance
}

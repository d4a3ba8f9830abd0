package graph

import (
	"fmt"
)

// Graph is an immutable adjacency-list view of a network.
// Built once per query and never mutated afterwards.
type Graph struct {
	nodes []Node
	adj   [][]Adjacent // Node ID -> neighbors, in input order
	edges int          // Stored connections, self-edges excluded
}

// Build creates a graph from computer and connection records.
// Every connection is stored from both endpoints; self-edges are dropped
// since a hop from a node to itself is always free.
func Build(nodes []Node, edges []Edge, limits Limits) (*Graph, error) {
	if err := limits.check(len(nodes), len(edges)); err != nil {
		return nil, err
	}

	n := len(nodes)
	for i, node := range nodes {
		if node.ID != i {
			return nil, fmt.Errorf("%w: computer at index %d has id %d", ErrNodeOutOfRange, i, node.ID)
		}
	}

	degree := make([]int, n)
	for i, e := range edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return nil, fmt.Errorf("%w: connection %d joins %d and %d, have %d computers",
				ErrNodeOutOfRange, i, e.A, e.B, n)
		}
		if e.A == e.B {
			continue
		}
		degree[e.A]++
		degree[e.B]++
	}

	g := &Graph{
		nodes: make([]Node, n),
		adj:   make([][]Adjacent, n),
	}
	copy(g.nodes, nodes)

	// Carve every adjacency list out of one backing array
	total := 0
	for _, d := range degree {
		total += d
	}
	backing := make([]Adjacent, 0, total)
	for id, d := range degree {
		g.adj[id] = backing[len(backing) : len(backing) : len(backing)+d]
		backing = backing[:len(backing)+d]
	}

	for _, e := range edges {
		if e.A == e.B {
			continue
		}
		g.adj[e.A] = append(g.adj[e.A], Adjacent{Neighbor: e.B, Cost: e.Cost})
		g.adj[e.B] = append(g.adj[e.B], Adjacent{Neighbor: e.A, Cost: e.Cost})
		g.edges++
	}

	return g, nil
}

// Len returns the number of computers
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of stored connections
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Valid reports whether id names a computer in the graph
func (g *Graph) Valid(id int) bool {
	return id >= 0 && id < len(g.nodes)
}

// Node retrieves a computer by ID
func (g *Graph) Node(id int) (Node, bool) {
	if !g.Valid(id) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Nodes returns a copy of all computers, ordered by ID
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Neighbors returns the adjacency list of a node.
// The returned slice must not be modified.
func (g *Graph) Neighbors(id int) []Adjacent {
	if !g.Valid(id) {
		return nil
	}
	return g.adj[id]
}

// EdgeCost returns the traversal cost between two computers.
// With parallel connections the most recently given one wins.
func (g *Graph) EdgeCost(src, dest int) (Time, bool) {
	if !g.Valid(src) || !g.Valid(dest) {
		return 0, false
	}
	if src == dest {
		return 0, true
	}

	list := g.adj[src]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Neighbor == dest {
			return list[i].Cost, true
		}
	}
	return 0, false
}

// CanReach applies the clearance rule between two computers of the graph
func (g *Graph) CanReach(src, dest int) bool {
	if !g.Valid(src) || !g.Valid(dest) {
		return false
	}
	return CanReach(g.nodes[src], g.nodes[dest])
}

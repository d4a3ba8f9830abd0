package graph

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomNetwork derives a small network from a seed, including parallel
// connections and self-edges
func randomNetwork(seed int64, n int) ([]Node, []Edge) {
	r := rand.New(rand.NewSource(seed))

	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{ID: i, Clearance: r.Intn(4), ActivationCost: Time(r.Intn(10))}
	}

	edges := make([]Edge, r.Intn(3*n+1))
	for i := range edges {
		edges[i] = Edge{A: r.Intn(n), B: r.Intn(n), Cost: Time(r.Intn(20))}
	}
	return nodes, edges
}

// TestGraphInvariants verifies adjacency invariants over generated networks
func TestGraphInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("self hop costs nothing", prop.ForAll(
		func(seed int64, n int) bool {
			nodes, edges := randomNetwork(seed, n)
			g, err := Build(nodes, edges, Limits{})
			if err != nil {
				return false
			}
			for u := 0; u < n; u++ {
				if cost, ok := g.EdgeCost(u, u); !ok || cost != 0 {
					return false
				}
				for _, a := range g.Neighbors(u) {
					if a.Neighbor == u {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 12),
	))

	properties.Property("adjacency is symmetric", prop.ForAll(
		func(seed int64, n int) bool {
			nodes, edges := randomNetwork(seed, n)
			g, err := Build(nodes, edges, Limits{})
			if err != nil {
				return false
			}

			// The last connection given for a pair decides its cost
			latest := make(map[[2]int]Time)
			for _, e := range edges {
				if e.A == e.B {
					continue
				}
				latest[[2]int{e.A, e.B}] = e.Cost
				latest[[2]int{e.B, e.A}] = e.Cost
			}

			for pair, w := range latest {
				ab, okAB := g.EdgeCost(pair[0], pair[1])
				ba, okBA := g.EdgeCost(pair[1], pair[0])
				if !okAB || !okBA || ab != w || ba != w {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(1, 12),
	))

	properties.Property("every stored entry has a mirror", prop.ForAll(
		func(seed int64, n int) bool {
			nodes, edges := randomNetwork(seed, n)
			g, err := Build(nodes, edges, Limits{})
			if err != nil {
				return false
			}

			count := func(from, to int, cost Time) int {
				c := 0
				for _, a := range g.Neighbors(from) {
					if a.Neighbor == to && a.Cost == cost {
						c++
					}
				}
				return c
			}

			total := 0
			for u := 0; u < n; u++ {
				for _, a := range g.Neighbors(u) {
					if count(u, a.Neighbor, a.Cost) != count(a.Neighbor, u, a.Cost) {
						return false
					}
					total++
				}
			}
			return total == 2*g.EdgeCount()
		},
		gen.Int64(),
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

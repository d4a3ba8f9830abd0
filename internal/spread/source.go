package spread

import (
	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// SourceResult is the launch point that compromises the most computers
type SourceResult struct {
	Source    int   `json:"source"`
	Count     int   `json:"count"`
	Reachable []int `json:"reachable"` // Ascending, includes Source
}

// frame is one level of the explicit DFS stack
type frame struct {
	node int
	next int // Next adjacency index to examine
}

// visit runs a clearance-gated depth-first traversal from start, marking
// visited computers. Neighbors are entered in adjacency order, the same order
// a recursive traversal would use.
func visit(g *graph.Graph, start int, visited []bool) int {
	count := 1
	visited[start] = true
	stack := []frame{{node: start}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		adj := g.Neighbors(top.node)
		if top.next >= len(adj) {
			stack = stack[:len(stack)-1]
			continue
		}

		a := adj[top.next]
		top.next++
		if visited[a.Neighbor] || !g.CanReach(top.node, a.Neighbor) {
			continue
		}

		visited[a.Neighbor] = true
		count++
		stack = append(stack, frame{node: a.Neighbor})
	}

	return count
}

func collect(visited []bool, count int) []int {
	ids := make([]int, 0, count)
	for id, ok := range visited {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Reachable returns every computer a compromise of start can spread to,
// start included, in ascending order
func Reachable(g *graph.Graph, start int) []int {
	if !g.Valid(start) {
		return nil
	}
	visited := make([]bool, g.Len())
	count := visit(g, start, visited)
	return collect(visited, count)
}

// BestSource tries every computer as the launch point and keeps the one
// reaching the most computers. Ties keep the lowest id.
func BestSource(g *graph.Graph) SourceResult {
	var best SourceResult

	visited := make([]bool, g.Len())
	for src := 0; src < g.Len(); src++ {
		clear(visited)

		count := visit(g, src, visited)
		if count > best.Count {
			best = SourceResult{
				Source:    src,
				Count:     count,
				Reachable: collect(visited, count),
			}
		}
	}

	return best
}

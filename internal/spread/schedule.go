package spread

import (
	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// Step is one compromise event of a single-source schedule
type Step struct {
	Node int        `json:"node"`
	Time graph.Time `json:"time"`
	// Children are the computers whose earliest compromise came directly
	// from this one, ascending
	Children []int `json:"children"`
}

// Schedule computes the earliest compromise time of every computer reachable
// from start. The start computer is compromised at its own activation cost;
// entering a neighbor costs the connection plus the neighbor's activation cost.
// Steps are returned in compromise order. An invalid start yields no steps.
func Schedule(g *graph.Graph, start int) []Step {
	startNode, ok := g.Node(start)
	if !ok {
		return nil
	}

	n := g.Len()
	times := unreachedTable(n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	done := make([]bool, n)

	times[start] = startNode.ActivationCost
	queue := &arrivalQueue{}
	queue.push(start, times[start])

	var order []int
	for queue.Len() > 0 {
		cur := queue.pop()
		if done[cur.node] || cur.time != times[cur.node] {
			continue
		}
		done[cur.node] = true
		order = append(order, cur.node)

		u, _ := g.Node(cur.node)
		for _, a := range g.Neighbors(cur.node) {
			if done[a.Neighbor] {
				continue
			}
			v, _ := g.Node(a.Neighbor)
			if !graph.CanReach(u, v) {
				continue
			}

			t := cur.time + a.Cost + v.ActivationCost
			if improves(t, times[a.Neighbor]) {
				times[a.Neighbor] = t
				parent[a.Neighbor] = cur.node
				queue.push(a.Neighbor, t)
			}
		}
	}

	steps := make([]Step, len(order))
	position := make(map[int]int, len(order))
	for i, id := range order {
		steps[i] = Step{Node: id, Time: times[id], Children: []int{}}
		position[id] = i
	}

	// Scanning ids upwards keeps every child set sorted
	for v := 0; v < n; v++ {
		if p := parent[v]; p >= 0 && done[v] {
			i := position[p]
			steps[i].Children = append(steps[i].Children, v)
		}
	}

	return steps
}

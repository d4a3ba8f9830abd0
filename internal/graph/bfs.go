package graph

// BFSLevel represents computers first reached after a given number of hops
type BFSLevel struct {
	Depth int
	Nodes []Node
}

// BFS performs a clearance-gated breadth-first traversal from a starting
// computer. A neighbor is only entered when the computer it is entered from
// satisfies the clearance rule towards it.
func (g *Graph) BFS(startID int) []BFSLevel {
	if !g.Valid(startID) {
		return nil
	}

	visited := make([]bool, len(g.nodes))
	levels := make([]BFSLevel, 0)
	queue := []int{startID}
	visited[startID] = true
	currentDepth := 0

	for len(queue) > 0 {
		levelSize := len(queue)
		level := BFSLevel{
			Depth: currentDepth,
			Nodes: make([]Node, 0, levelSize),
		}

		for i := 0; i < levelSize; i++ {
			id := queue[0]
			queue = queue[1:]

			level.Nodes = append(level.Nodes, g.nodes[id])

			for _, a := range g.adj[id] {
				if !visited[a.Neighbor] && CanReach(g.nodes[id], g.nodes[a.Neighbor]) {
					visited[a.Neighbor] = true
					queue = append(queue, a.Neighbor)
				}
			}
		}

		levels = append(levels, level)
		currentDepth++
	}

	return levels
}

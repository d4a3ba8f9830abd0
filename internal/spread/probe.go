package spread

import (
	"fmt"

	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// Status is the outcome of replaying an intrusion path
type Status int

const (
	Success Status = iota
	NoConnection
	NoPermission
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case NoConnection:
		return "NO_CONNECTION"
	case NoPermission:
		return "NO_PERMISSION"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON and YAML output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProbeResult reports how far an intrusion path got
type ProbeResult struct {
	Status  Status     `json:"status"`
	Elapsed graph.Time `json:"elapsedTime"`
	// FailedHop is the index in the path of the computer that could not be
	// entered, or -1 when the whole path was replayed
	FailedHop int `json:"failedHop"`
}

// Probe replays path hop by hop against the network. A computer's activation
// cost is paid on its first visit only. On failure Elapsed holds the time spent
// before the failing hop.
func Probe(g *graph.Graph, path []int) ProbeResult {
	if len(path) == 0 {
		return ProbeResult{Status: Success, FailedHop: -1}
	}

	prev := path[0]
	first, ok := g.Node(prev)
	if !ok {
		return ProbeResult{Status: NoConnection, FailedHop: 0}
	}

	visited := make([]bool, g.Len())
	visited[prev] = true
	elapsed := first.ActivationCost

	for i := 1; i < len(path); i++ {
		cur := path[i]

		// Connection is checked before clearance
		cost, ok := g.EdgeCost(prev, cur)
		if !ok {
			return ProbeResult{Status: NoConnection, Elapsed: elapsed, FailedHop: i}
		}
		if !g.CanReach(prev, cur) {
			return ProbeResult{Status: NoPermission, Elapsed: elapsed, FailedHop: i}
		}

		elapsed += cost
		if !visited[cur] {
			node, _ := g.Node(cur)
			elapsed += node.ActivationCost
			visited[cur] = true
		}
		prev = cur
	}

	return ProbeResult{Status: Success, Elapsed: elapsed, FailedHop: -1}
}

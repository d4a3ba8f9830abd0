package spread

import (
	"container/heap"

	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// arrival is a tentative compromise time for a computer
type arrival struct {
	node int
	time graph.Time
}

// arrivalQueue is a min-heap ordered by time, then by computer id.
// Entries go stale when a better time is pushed for the same computer;
// callers skip them on pop.
type arrivalQueue []arrival

func (q arrivalQueue) Len() int { return len(q) }

func (q arrivalQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].node < q[j].node
}

func (q arrivalQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *arrivalQueue) Push(x any) { *q = append(*q, x.(arrival)) }

func (q *arrivalQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (q *arrivalQueue) push(node int, t graph.Time) {
	heap.Push(q, arrival{node: node, time: t})
}

func (q *arrivalQueue) pop() arrival {
	return heap.Pop(q).(arrival)
}

// improves reports whether t beats the current time of a table entry
func improves(t, current graph.Time) bool {
	return current == graph.Unreached || t < current
}

func unreachedTable(n int) []graph.Time {
	table := make([]graph.Time, n)
	for i := range table {
		table[i] = graph.Unreached
	}
	return table
}

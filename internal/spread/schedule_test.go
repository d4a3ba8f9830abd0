package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pfrederiksen/breach-radius/internal/graph"
)

func TestSchedule(t *testing.T) {
	tests := []struct {
		name  string
		nodes []graph.Node
		edges []graph.Edge
		start int
		want  []Step
	}{
		{
			name:  "clearance jump excludes the far computer",
			nodes: computers([2]int{1, 0}, [2]int{1, 0}, [2]int{3, 0}),
			edges: []graph.Edge{{A: 0, B: 1, Cost: 5}, {A: 1, B: 2, Cost: 5}},
			start: 0,
			want: []Step{
				{Node: 0, Time: 0, Children: []int{1}},
				{Node: 1, Time: 5, Children: []int{}},
			},
		},
		{
			name:  "cheaper detour wins",
			nodes: computers([2]int{0, 1}, [2]int{0, 2}, [2]int{0, 0}, [2]int{0, 4}),
			edges: []graph.Edge{
				{A: 0, B: 1, Cost: 3},
				{A: 0, B: 2, Cost: 10},
				{A: 1, B: 2, Cost: 1},
				{A: 2, B: 3, Cost: 2},
			},
			start: 0,
			want: []Step{
				{Node: 0, Time: 1, Children: []int{1}},
				{Node: 1, Time: 6, Children: []int{2}},
				{Node: 2, Time: 7, Children: []int{3}},
				{Node: 3, Time: 13, Children: []int{}},
			},
		},
		{
			name:  "equal times finalize lowest id first",
			nodes: computers([2]int{0, 0}, [2]int{0, 0}, [2]int{0, 0}),
			edges: []graph.Edge{{A: 0, B: 2, Cost: 1}, {A: 0, B: 1, Cost: 1}},
			start: 0,
			want: []Step{
				{Node: 0, Time: 0, Children: []int{1, 2}},
				{Node: 1, Time: 1, Children: []int{}},
				{Node: 2, Time: 1, Children: []int{}},
			},
		},
		{
			name:  "start pays its own activation",
			nodes: computers([2]int{0, 4}, [2]int{0, 1}),
			edges: []graph.Edge{{A: 0, B: 1, Cost: 2}},
			start: 1,
			want: []Step{
				{Node: 1, Time: 1, Children: []int{0}},
				{Node: 0, Time: 7, Children: []int{}},
			},
		},
		{
			name:  "parallel connection uses the cheaper one",
			nodes: computers([2]int{0, 0}, [2]int{0, 0}),
			edges: []graph.Edge{{A: 0, B: 1, Cost: 2}, {A: 0, B: 1, Cost: 9}},
			start: 0,
			want: []Step{
				{Node: 0, Time: 0, Children: []int{1}},
				{Node: 1, Time: 2, Children: []int{}},
			},
		},
		{
			name:  "start out of range",
			nodes: computers([2]int{0, 0}),
			start: 3,
			want:  nil,
		},
		{
			name:  "negative start",
			nodes: computers([2]int{0, 0}),
			start: -1,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.nodes, tt.edges)
			assert.Equal(t, tt.want, Schedule(g, tt.start))
		})
	}
}

package spread

import (
	"cmp"
	"slices"

	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// TimedStep is one compromise event of a multi-wave schedule
type TimedStep struct {
	Node int        `json:"node"`
	Time graph.Time `json:"time"`
}

// Wave is one relaxation pass, launched from a source computer at a fixed
// clearance ceiling
type Wave struct {
	Source int `json:"source"`
	Level  int `json:"level"`
}

// Plan is the result of a multi-wave schedule together with the waves that
// produced it, in processing order
type Plan struct {
	Steps []TimedStep `json:"steps"`
	Waves []Wave      `json:"waves"`
}

// AdvancedSchedule computes earliest compromise times when every captured
// computer one clearance level above the current wave launches a wave of its
// own. Steps are ordered by time, then id.
func AdvancedSchedule(g *graph.Graph, start int) []TimedStep {
	return AdvancedPlan(g, start).Steps
}

// AdvancedPlan is AdvancedSchedule that also reports the waves it ran
func AdvancedPlan(g *graph.Graph, start int) Plan {
	if !g.Valid(start) {
		return Plan{}
	}
	p := newWavePlanner(g)
	return p.run(start)
}

type wavePlanner struct {
	g        *graph.Graph
	best     []graph.Time // Committed earliest times
	wave     []graph.Time // Working times of the current clearance level
	enqueued []bool
	sources  []Wave

	// onFold, when set, observes best after every fold
	onFold func(best []graph.Time)
}

func newWavePlanner(g *graph.Graph) *wavePlanner {
	return &wavePlanner{
		g:        g,
		best:     unreachedTable(g.Len()),
		wave:     unreachedTable(g.Len()),
		enqueued: make([]bool, g.Len()),
	}
}

func (p *wavePlanner) run(start int) Plan {
	startNode, _ := p.g.Node(start)
	p.best[start] = startNode.ActivationCost
	p.wave[start] = startNode.ActivationCost
	p.enqueued[start] = true
	p.sources = append(p.sources, Wave{Source: start, Level: startNode.Clearance})

	var waves []Wave
	top, started := 0, false

	for len(p.sources) > 0 {
		w := p.sources[0]
		p.sources = p.sources[1:]

		if !started || w.Level > top {
			p.fold()
			top, started = w.Level, true
		}
		if t := p.best[w.Source]; t != graph.Unreached && improves(t, p.wave[w.Source]) {
			p.wave[w.Source] = t
		}

		p.relax(w)
		waves = append(waves, w)
	}
	p.fold()

	return Plan{Steps: p.steps(), Waves: waves}
}

// fold commits the working times into best and clears them for the next level
func (p *wavePlanner) fold() {
	for v, t := range p.wave {
		if t != graph.Unreached && improves(t, p.best[v]) {
			p.best[v] = t
		}
		p.wave[v] = graph.Unreached
	}
	if p.onFold != nil {
		p.onFold(p.best)
	}
}

// relax runs Dijkstra from the wave's source over the working times. Only
// computers at most one level above the wave are entered; those exactly one
// level above are queued as sources of their own the first time they improve.
func (p *wavePlanner) relax(w Wave) {
	done := make([]bool, p.g.Len())
	queue := &arrivalQueue{}
	queue.push(w.Source, p.wave[w.Source])

	for queue.Len() > 0 {
		cur := queue.pop()
		if done[cur.node] || cur.time != p.wave[cur.node] {
			continue
		}
		done[cur.node] = true

		for _, a := range p.g.Neighbors(cur.node) {
			if done[a.Neighbor] {
				continue
			}
			v, _ := p.g.Node(a.Neighbor)
			if v.Clearance > w.Level+1 {
				continue
			}

			t := cur.time + a.Cost + v.ActivationCost
			if !improves(t, p.wave[a.Neighbor]) {
				continue
			}
			p.wave[a.Neighbor] = t
			queue.push(a.Neighbor, t)

			if v.Clearance == w.Level+1 && !p.enqueued[a.Neighbor] {
				p.enqueued[a.Neighbor] = true
				p.sources = append(p.sources, Wave{Source: a.Neighbor, Level: v.Clearance})
			}
		}
	}
}

func (p *wavePlanner) steps() []TimedStep {
	var steps []TimedStep
	for id, t := range p.best {
		if t != graph.Unreached {
			steps = append(steps, TimedStep{Node: id, Time: t})
		}
	}

	slices.SortFunc(steps, func(a, b TimedStep) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Node, b.Node)
	})
	return steps
}

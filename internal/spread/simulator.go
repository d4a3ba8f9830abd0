package spread

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/breach-radius/internal/graph"
	"github.com/pfrederiksen/breach-radius/internal/metrics"
)

// Simulator runs compromise queries. Every query builds its own graph from
// the records it is given, so a Simulator may be shared freely.
type Simulator struct {
	limits  graph.Limits
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLimits caps the size of the networks queries may build
func WithLimits(limits graph.Limits) Option {
	return func(s *Simulator) {
		s.limits = limits
	}
}

// WithLogger sets the logger queries report to
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithMetrics records every query in the given registry
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Simulator) {
		s.metrics = r
	}
}

// NewSimulator creates a Simulator
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// query tracks one operation from graph construction to result
type query struct {
	s         *Simulator
	operation string
	logger    *slog.Logger
	start     time.Time
}

func (s *Simulator) begin(operation string, nodes []graph.Node, edges []graph.Edge) (*graph.Graph, *query, error) {
	q := &query{
		s:         s,
		operation: operation,
		logger:    s.logger.With("query", uuid.NewString(), "operation", operation),
		start:     time.Now(),
	}

	q.logger.Debug("Building network",
		"computers", len(nodes),
		"connections", len(edges))

	g, err := graph.Build(nodes, edges, s.limits)
	if err != nil {
		q.finish("error", 0)
		return nil, nil, fmt.Errorf("failed to build network: %w", err)
	}
	s.metrics.RecordGraph(g.Len(), g.EdgeCount())

	return g, q, nil
}

func (q *query) finish(status string, compromised int) {
	elapsed := time.Since(q.start)
	q.s.metrics.RecordQuery(q.operation, status, elapsed, compromised)
	q.logger.Info("Query complete",
		"status", status,
		"compromised", compromised,
		"duration", elapsed)
}

// ProbePath replays an intrusion path over a network
func (s *Simulator) ProbePath(nodes []graph.Node, edges []graph.Edge, path []int) (ProbeResult, error) {
	g, q, err := s.begin("probe", nodes, edges)
	if err != nil {
		return ProbeResult{}, err
	}

	res := Probe(g, path)
	compromised := len(path)
	if res.FailedHop >= 0 {
		compromised = res.FailedHop
	}
	q.finish(res.Status.String(), distinct(path[:compromised]))

	return res, nil
}

// BestSource finds the launch point that compromises the most computers
func (s *Simulator) BestSource(nodes []graph.Node, edges []graph.Edge) (SourceResult, error) {
	g, q, err := s.begin("source", nodes, edges)
	if err != nil {
		return SourceResult{}, err
	}

	res := BestSource(g)
	q.finish("ok", res.Count)

	return res, nil
}

// Schedule computes the single-source compromise schedule from start
func (s *Simulator) Schedule(nodes []graph.Node, edges []graph.Edge, start int) ([]Step, error) {
	g, q, err := s.begin("schedule", nodes, edges)
	if err != nil {
		return nil, err
	}

	steps := Schedule(g, start)
	if !g.Valid(start) {
		q.logger.Warn("Start computer out of range, nothing reachable", "start", start)
	}
	q.finish("ok", len(steps))

	return steps, nil
}

// AdvancedSchedule computes the multi-wave compromise schedule from start
func (s *Simulator) AdvancedSchedule(nodes []graph.Node, edges []graph.Edge, start int) ([]TimedStep, error) {
	plan, err := s.AdvancedPlan(nodes, edges, start)
	if err != nil {
		return nil, err
	}
	return plan.Steps, nil
}

// AdvancedPlan computes the multi-wave schedule and the waves behind it
func (s *Simulator) AdvancedPlan(nodes []graph.Node, edges []graph.Edge, start int) (Plan, error) {
	g, q, err := s.begin("advanced", nodes, edges)
	if err != nil {
		return Plan{}, err
	}

	plan := AdvancedPlan(g, start)
	if !g.Valid(start) {
		q.logger.Warn("Start computer out of range, nothing reachable", "start", start)
	}
	q.logger.Debug("Waves processed", "waves", len(plan.Waves))
	q.finish("ok", len(plan.Steps))

	return plan, nil
}

func distinct(ids []int) int {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

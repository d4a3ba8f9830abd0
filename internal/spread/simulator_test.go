package spread

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"

	"github.com/pfrederiksen/breach-radius/internal/graph"
	"github.com/pfrederiksen/breach-radius/internal/metrics"
)

func newTestSimulator(t *testing.T, opts ...Option) (*Simulator, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewSimulator(append([]Option{WithLogger(logger)}, opts...)...), &logs
}

func counterValue(t *testing.T, r *metrics.Registry, operation, status string) float64 {
	t.Helper()
	c, err := r.QueriesTotal.GetMetricWithLabelValues(operation, status)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.Counter.GetValue()
}

func TestSimulatorOperations(t *testing.T) {
	reg := metrics.NewRegistry()
	sim, logs := newTestSimulator(t, WithMetrics(reg))

	nodes := computers([2]int{1, 0}, [2]int{2, 0}, [2]int{3, 0})
	edges := []graph.Edge{{A: 0, B: 1, Cost: 5}, {A: 1, B: 2, Cost: 5}}

	probe, err := sim.ProbePath(nodes, edges, []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, ProbeResult{Status: NoConnection, Elapsed: 0, FailedHop: 1}, probe)

	best, err := sim.BestSource(nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, SourceResult{Source: 0, Count: 3, Reachable: []int{0, 1, 2}}, best)

	steps, err := sim.Schedule(nodes, edges, 0)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, graph.Time(10), steps[2].Time)

	timed, err := sim.AdvancedSchedule(nodes, edges, 0)
	require.NoError(t, err)
	assert.Equal(t, []TimedStep{{Node: 0, Time: 0}, {Node: 1, Time: 5}, {Node: 2, Time: 10}}, timed)

	assert.Equal(t, 1.0, counterValue(t, reg, "probe", "NO_CONNECTION"))
	assert.Equal(t, 1.0, counterValue(t, reg, "source", "ok"))
	assert.Equal(t, 1.0, counterValue(t, reg, "schedule", "ok"))
	assert.Equal(t, 1.0, counterValue(t, reg, "advanced", "ok"))

	assert.Contains(t, logs.String(), "Query complete")
	assert.Contains(t, logs.String(), "operation=advanced")
}

func TestSimulatorResourceExhausted(t *testing.T) {
	reg := metrics.NewRegistry()
	sim, _ := newTestSimulator(t,
		WithMetrics(reg),
		WithLimits(graph.Limits{MaxNodes: 2}))

	nodes := computers([2]int{0, 0}, [2]int{0, 0}, [2]int{0, 0})

	_, err := sim.Schedule(nodes, nil, 0)
	assert.ErrorIs(t, err, graph.ErrResourceExhausted)

	_, err = sim.ProbePath(nodes, nil, []int{0})
	assert.ErrorIs(t, err, graph.ErrResourceExhausted)

	_, err = sim.BestSource(nodes, nil)
	assert.ErrorIs(t, err, graph.ErrResourceExhausted)

	_, err = sim.AdvancedPlan(nodes, nil, 0)
	assert.ErrorIs(t, err, graph.ErrResourceExhausted)

	assert.Equal(t, 1.0, counterValue(t, reg, "schedule", "error"))
}

func TestSimulatorOutOfRange(t *testing.T) {
	sim, logs := newTestSimulator(t)
	nodes := computers([2]int{0, 0})

	steps, err := sim.Schedule(nodes, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, steps)

	timed, err := sim.AdvancedSchedule(nodes, nil, -1)
	require.NoError(t, err)
	assert.Empty(t, timed)
	assert.Contains(t, logs.String(), "Start computer out of range")

	_, err = sim.BestSource(nodes, []graph.Edge{{A: 0, B: 1}})
	assert.ErrorIs(t, err, graph.ErrNodeOutOfRange)
}

func TestNewSimulatorDefaults(t *testing.T) {
	sim := NewSimulator()
	assert.NotNil(t, sim.logger)
	assert.Nil(t, sim.metrics)
	assert.Equal(t, graph.Limits{}, sim.limits)
}

package output

import (
	"encoding/json"
	"io"

	"github.com/pfrederiksen/breach-radius/internal/graph"
	"github.com/pfrederiksen/breach-radius/internal/network"
	"github.com/pfrederiksen/breach-radius/internal/spread"
)

// ComputerJSON identifies a computer in JSON output
type ComputerJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProbeJSON represents a probed path in JSON format
type ProbeJSON struct {
	Path        []ComputerJSON `json:"path"`
	Status      spread.Status  `json:"status"`
	ElapsedTime graph.Time     `json:"elapsedTime"`
	FailedHop   int            `json:"failedHop"`
}

// SourceJSON represents the best infection source in JSON format
type SourceJSON struct {
	Source    ComputerJSON   `json:"source"`
	Count     int            `json:"count"`
	Reachable []ComputerJSON `json:"reachable"`
}

// StepJSON is one compromise of a schedule
type StepJSON struct {
	ComputerJSON
	Time     graph.Time `json:"time"`
	Children []int      `json:"children,omitempty"`
}

// WaveJSON is a multi-wave spread source
type WaveJSON struct {
	Source ComputerJSON `json:"source"`
	Level  int          `json:"level"`
}

// ScheduleJSON represents a schedule in JSON format
type ScheduleJSON struct {
	Start ComputerJSON `json:"start"`
	Steps []StepJSON   `json:"steps"`
	Waves []WaveJSON   `json:"waves,omitempty"`
}

func computerJSON(doc *network.Document, id int) ComputerJSON {
	return ComputerJSON{ID: id, Name: computer(doc, id).Name}
}

func computersJSON(doc *network.Document, ids []int) []ComputerJSON {
	out := make([]ComputerJSON, len(ids))
	for i, id := range ids {
		out[i] = computerJSON(doc, id)
	}
	return out
}

func probeJSON(doc *network.Document, path []int, res spread.ProbeResult) ProbeJSON {
	return ProbeJSON{
		Path:        computersJSON(doc, path),
		Status:      res.Status,
		ElapsedTime: res.Elapsed,
		FailedHop:   res.FailedHop,
	}
}

func sourceJSON(doc *network.Document, res spread.SourceResult) SourceJSON {
	return SourceJSON{
		Source:    computerJSON(doc, res.Source),
		Count:     res.Count,
		Reachable: computersJSON(doc, res.Reachable),
	}
}

func scheduleJSON(doc *network.Document, start int, steps []spread.Step) ScheduleJSON {
	out := ScheduleJSON{Start: computerJSON(doc, start), Steps: make([]StepJSON, len(steps))}
	for i, s := range steps {
		out.Steps[i] = StepJSON{ComputerJSON: computerJSON(doc, s.Node), Time: s.Time, Children: s.Children}
	}
	return out
}

func advancedJSON(doc *network.Document, start int, plan spread.Plan, waves bool) ScheduleJSON {
	out := ScheduleJSON{Start: computerJSON(doc, start), Steps: make([]StepJSON, len(plan.Steps))}
	for i, s := range plan.Steps {
		out.Steps[i] = StepJSON{ComputerJSON: computerJSON(doc, s.Node), Time: s.Time}
	}
	if waves {
		out.Waves = make([]WaveJSON, len(plan.Waves))
		for i, wave := range plan.Waves {
			out.Waves[i] = WaveJSON{Source: computerJSON(doc, wave.Source), Level: wave.Level}
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

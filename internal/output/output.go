// Package output renders simulation results as styled trees, JSON, Graphviz
// DOT, or SVG.
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pfrederiksen/breach-radius/internal/network"
	"github.com/pfrederiksen/breach-radius/internal/spread"
)

// Format selects a renderer
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatTree, FormatJSON, FormatDOT, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be tree, json, dot, or svg)", name)
	}
}

// Options controls rendering
type Options struct {
	Format  Format
	NoColor bool
	// Waves includes the multi-wave source list in advanced schedules
	Waves bool
}

// RenderProbe renders the outcome of walking a path
func RenderProbe(w io.Writer, doc *network.Document, path []int, res spread.ProbeResult, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, probeJSON(doc, path, res))
	case FormatDOT, FormatSVG:
		return writeDOT(w, probeDOT(doc, path, res), opts.Format)
	default:
		return probeTree(w, doc, path, res, newPalette(opts.NoColor))
	}
}

// RenderSource renders the best infection source and what it reaches
func RenderSource(w io.Writer, doc *network.Document, res spread.SourceResult, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, sourceJSON(doc, res))
	case FormatDOT, FormatSVG:
		return writeDOT(w, sourceDOT(doc, res), opts.Format)
	default:
		return sourceTree(w, doc, res, newPalette(opts.NoColor))
	}
}

// RenderSchedule renders a single-source compromise schedule
func RenderSchedule(w io.Writer, doc *network.Document, start int, steps []spread.Step, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, scheduleJSON(doc, start, steps))
	case FormatDOT, FormatSVG:
		return writeDOT(w, scheduleDOT(doc, steps), opts.Format)
	default:
		return scheduleTree(w, doc, start, steps, newPalette(opts.NoColor))
	}
}

// RenderAdvanced renders a multi-wave schedule
func RenderAdvanced(w io.Writer, doc *network.Document, start int, plan spread.Plan, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, advancedJSON(doc, start, plan, opts.Waves))
	case FormatDOT, FormatSVG:
		return writeDOT(w, advancedDOT(doc, plan), opts.Format)
	default:
		return advancedTree(w, doc, start, plan, opts.Waves, newPalette(opts.NoColor))
	}
}

// computer returns the document record for id, or a bare record when id is
// outside the document
func computer(doc *network.Document, id int) network.Computer {
	if id >= 0 && id < len(doc.Computers) {
		return doc.Computers[id]
	}
	return network.Computer{ID: id}
}

// label names a computer for display, with its id when it has a name
func label(doc *network.Document, id int) string {
	if c := computer(doc, id); c.Name != "" {
		return c.Name + " #" + strconv.Itoa(id)
	}
	return "#" + strconv.Itoa(id)
}

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/breach-radius/internal/graph"
	"github.com/pfrederiksen/breach-radius/internal/network"
	"github.com/pfrederiksen/breach-radius/internal/spread"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - refused hops
	colorRed    = lipgloss.Color("167") // Soft red - compromised
	colorGray   = lipgloss.Color("245") // Gray - secondary text
)

// palette holds the styles of a tree rendering
type palette struct {
	title lipgloss.Style
	name  lipgloss.Style
	time  lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
	lines lipgloss.Style
}

func newPalette(noColor bool) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain, plain}
	}
	return palette{
		title: lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		name:  lipgloss.NewStyle().Foreground(colorRed),
		time:  lipgloss.NewStyle().Foreground(colorCyan),
		ok:    lipgloss.NewStyle().Foreground(colorGreen),
		warn:  lipgloss.NewStyle().Foreground(colorYellow),
		dim:   lipgloss.NewStyle().Foreground(colorGray),
		lines: lipgloss.NewStyle().Foreground(colorGray),
	}
}

func branch(i, n int) string {
	if i < n-1 {
		return "├─"
	}
	return "└─"
}

func probeTree(w io.Writer, doc *network.Document, path []int, res spread.ProbeResult, p palette) error {
	labels := make([]string, len(path))
	for i, id := range path {
		labels[i] = label(doc, id)
	}
	fmt.Fprintf(w, "%s %s\n", p.title.Render("Probe:"), strings.Join(labels, " → "))

	for i, id := range path {
		var state string
		switch {
		case res.FailedHop == -1 || i < res.FailedHop:
			state = p.ok.Render("compromised")
		case i == res.FailedHop:
			state = p.warn.Render(res.Status.String())
		default:
			state = p.dim.Render("not attempted")
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			p.lines.Render(branch(i, len(path))),
			p.name.Render(labels[i]),
			p.dim.Render(fmt.Sprintf("(clearance %d)", computer(doc, id).Clearance)),
			state)
	}

	status := p.ok.Render(res.Status.String())
	if res.Status != spread.Success {
		status = p.warn.Render(res.Status.String())
	}
	fmt.Fprintf(w, "\nResult: %s after %s", status, p.time.Render(fmt.Sprint(res.Elapsed)))
	if res.FailedHop >= 0 {
		fmt.Fprintf(w, " (failed at hop %d)", res.FailedHop)
	}
	fmt.Fprintln(w)
	return nil
}

func sourceTree(w io.Writer, doc *network.Document, res spread.SourceResult, p palette) error {
	if res.Count == 0 {
		fmt.Fprintln(w, p.dim.Render("Network has no computers"))
		return nil
	}

	g, err := graph.Build(doc.Nodes(), doc.Edges(), graph.Limits{})
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	fmt.Fprintf(w, "%s %s reaches %s computers\n",
		p.title.Render("Best source:"),
		p.name.Render(label(doc, res.Source)),
		p.time.Render(fmt.Sprint(res.Count)))

	for _, level := range g.BFS(res.Source) {
		fmt.Fprintf(w, "\n[Level %d] ", level.Depth)
		switch level.Depth {
		case 0:
			fmt.Fprintln(w, "Source")
		case 1:
			fmt.Fprintln(w, "Direct Hops")
		default:
			fmt.Fprintln(w, "Transitive Hops")
		}

		for i, node := range level.Nodes {
			fmt.Fprintf(w, "%s %s %s\n",
				p.lines.Render(branch(i, len(level.Nodes))),
				p.name.Render(label(doc, node.ID)),
				p.dim.Render(fmt.Sprintf("(clearance %d)", node.Clearance)))
		}
	}

	fmt.Fprintf(w, "\nSummary: %d of %d computers compromised\n", res.Count, len(doc.Computers))
	return nil
}

func scheduleTree(w io.Writer, doc *network.Document, start int, steps []spread.Step, p palette) error {
	if len(steps) == 0 {
		fmt.Fprintf(w, "%s\n", p.dim.Render(fmt.Sprintf("Nothing reachable from %s", label(doc, start))))
		return nil
	}

	byNode := make(map[int]spread.Step, len(steps))
	for _, s := range steps {
		byNode[s.Node] = s
	}

	fmt.Fprintf(w, "%s %s\n", p.title.Render("Schedule from"), p.name.Render(label(doc, start)))

	root := steps[0]
	fmt.Fprintf(w, "%s %s\n", p.name.Render(label(doc, root.Node)), p.time.Render(fmt.Sprintf("t=%d", root.Time)))
	writeChildren(w, doc, byNode, root, "", p)

	last := steps[len(steps)-1]
	fmt.Fprintf(w, "\nSummary: %d computers compromised, last at %d\n", len(steps), last.Time)
	return nil
}

func writeChildren(w io.Writer, doc *network.Document, byNode map[int]spread.Step, parent spread.Step, indent string, p palette) {
	for i, id := range parent.Children {
		child := byNode[id]
		fmt.Fprintf(w, "%s%s %s %s\n",
			indent,
			p.lines.Render(branch(i, len(parent.Children))),
			p.name.Render(label(doc, id)),
			p.time.Render(fmt.Sprintf("t=%d", child.Time)))

		next := indent + "   "
		if i < len(parent.Children)-1 {
			next = indent + p.lines.Render("│") + "  "
		}
		writeChildren(w, doc, byNode, child, next, p)
	}
}

func advancedTree(w io.Writer, doc *network.Document, start int, plan spread.Plan, waves bool, p palette) error {
	if len(plan.Steps) == 0 {
		fmt.Fprintf(w, "%s\n", p.dim.Render(fmt.Sprintf("Nothing reachable from %s", label(doc, start))))
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", p.title.Render("Multi-wave schedule from"), p.name.Render(label(doc, start)))
	for i, s := range plan.Steps {
		fmt.Fprintf(w, "%s %s %s\n",
			p.lines.Render(branch(i, len(plan.Steps))),
			p.time.Render(fmt.Sprintf("t=%d", s.Time)),
			p.name.Render(label(doc, s.Node)))
	}

	if waves {
		fmt.Fprintf(w, "\n%s\n", p.title.Render("Waves:"))
		for i, wave := range plan.Waves {
			fmt.Fprintf(w, "%s level %d from %s\n",
				p.lines.Render(branch(i, len(plan.Waves))),
				wave.Level,
				p.name.Render(label(doc, wave.Source)))
		}
	}

	last := plan.Steps[len(plan.Steps)-1]
	fmt.Fprintf(w, "\nSummary: %d computers compromised, last at %d\n", len(plan.Steps), last.Time)
	return nil
}

package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pfrederiksen/breach-radius/internal/network"
	"github.com/pfrederiksen/breach-radius/internal/spread"
)

func dotHeader(b *strings.Builder, kind, name string) {
	fmt.Fprintf(b, "%s %s {\n", kind, name)
	fmt.Fprintln(b, "  rankdir=LR;")
	fmt.Fprintln(b, "  node [shape=box, style=rounded];")
	fmt.Fprintln(b, "")
}

func dotNode(b *strings.Builder, doc *network.Document, id int, extra string, attrs ...string) {
	c := computer(doc, id)
	text := fmt.Sprintf("%s\\nclearance %d", escapeLabel(label(doc, id)), c.Clearance)
	if extra != "" {
		text += "\\n" + extra
	}
	attrs = append([]string{fmt.Sprintf("label=\"%s\"", text)}, attrs...)
	fmt.Fprintf(b, "  %s [%s];\n", nodeID(id), strings.Join(attrs, ", "))
}

func probeDOT(doc *network.Document, path []int, res spread.ProbeResult) string {
	var b strings.Builder
	dotHeader(&b, "digraph", "probe")

	seen := make(map[int]bool, len(path))
	for i, id := range path {
		if seen[id] {
			continue
		}
		seen[id] = true
		if res.FailedHop >= 0 && i >= res.FailedHop {
			dotNode(&b, doc, id, "", "color=gray")
		} else {
			dotNode(&b, doc, id, "", "style=\"rounded,filled\"", "fillcolor=salmon")
		}
	}

	fmt.Fprintln(&b, "")

	for i := 1; i < len(path); i++ {
		from, to := nodeID(path[i-1]), nodeID(path[i])
		switch {
		case res.FailedHop == -1 || i < res.FailedHop:
			fmt.Fprintf(&b, "  %s -> %s [label=\"%d\"];\n", from, to, i)
		case i == res.FailedHop:
			fmt.Fprintf(&b, "  %s -> %s [label=\"%s\", style=dashed, color=red];\n", from, to, res.Status)
		default:
			fmt.Fprintf(&b, "  %s -> %s [style=dotted, color=gray];\n", from, to)
		}
	}

	fmt.Fprintln(&b, "}")
	return b.String()
}

func sourceDOT(doc *network.Document, res spread.SourceResult) string {
	var b strings.Builder
	dotHeader(&b, "graph", "source")

	reached := make(map[int]bool, len(res.Reachable))
	for _, id := range res.Reachable {
		reached[id] = true
		if id == res.Source {
			dotNode(&b, doc, id, "source", "style=\"rounded,filled\"", "fillcolor=salmon", "penwidth=2")
		} else {
			dotNode(&b, doc, id, "", "style=\"rounded,filled\"", "fillcolor=mistyrose")
		}
	}

	fmt.Fprintln(&b, "")

	// Connections inside the compromised set
	for _, c := range doc.Connections {
		if c.A == c.B || !reached[c.A] || !reached[c.B] {
			continue
		}
		fmt.Fprintf(&b, "  %s -- %s [label=\"%d\"];\n", nodeID(c.A), nodeID(c.B), c.Cost)
	}

	fmt.Fprintln(&b, "}")
	return b.String()
}

func scheduleDOT(doc *network.Document, steps []spread.Step) string {
	var b strings.Builder
	dotHeader(&b, "digraph", "schedule")

	times := make(map[int]string, len(steps))
	for _, s := range steps {
		times[s.Node] = fmt.Sprintf("t=%d", s.Time)
		dotNode(&b, doc, s.Node, times[s.Node])
	}

	fmt.Fprintln(&b, "")

	for _, s := range steps {
		for _, c := range s.Children {
			fmt.Fprintf(&b, "  %s -> %s [label=\"%s\"];\n", nodeID(s.Node), nodeID(c), times[c])
		}
	}

	fmt.Fprintln(&b, "}")
	return b.String()
}

func advancedDOT(doc *network.Document, plan spread.Plan) string {
	var b strings.Builder
	dotHeader(&b, "digraph", "advanced")

	sources := make(map[int]bool, len(plan.Waves))
	for _, w := range plan.Waves {
		sources[w.Source] = true
	}

	for _, s := range plan.Steps {
		attrs := []string{}
		if sources[s.Node] {
			attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=salmon")
		}
		dotNode(&b, doc, s.Node, fmt.Sprintf("t=%d", s.Time), attrs...)
	}

	fmt.Fprintln(&b, "")

	// Consecutive compromises, in schedule order
	for i := 1; i < len(plan.Steps); i++ {
		fmt.Fprintf(&b, "  %s -> %s [style=dotted, arrowhead=none];\n",
			nodeID(plan.Steps[i-1].Node), nodeID(plan.Steps[i].Node))
	}

	fmt.Fprintln(&b, "}")
	return b.String()
}

func writeDOT(w io.Writer, dot string, format Format) error {
	if format != FormatSVG {
		_, err := io.WriteString(w, dot)
		return err
	}

	svg, err := RenderSVG(dot)
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}

// RenderSVG renders a DOT graph to SVG using Graphviz
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeID(id int) string {
	return fmt.Sprintf("\"c%d\"", id)
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\"", "\\\"")
}

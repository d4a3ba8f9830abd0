// Package network reads and writes network documents: the computer and
// connection records a simulation runs on.
package network

import (
	"fmt"
	"strconv"

	"github.com/pfrederiksen/breach-radius/internal/graph"
)

// Computer is one machine of a network document
type Computer struct {
	ID             int               `json:"id" yaml:"id" toml:"id" validate:"gte=0"`
	Name           string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" validate:"max=256"`
	Type           string            `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"` // Resource type when discovered from AWS
	Clearance      int               `json:"clearance" yaml:"clearance" toml:"clearance" validate:"gte=0"`
	ActivationCost int64             `json:"activationCost" yaml:"activationCost" toml:"activationCost" validate:"gte=0"`
	Tags           map[string]string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// Connection is an undirected timed link between two computers
type Connection struct {
	A    int    `json:"a" yaml:"a" toml:"a" validate:"gte=0"`
	B    int    `json:"b" yaml:"b" toml:"b" validate:"gte=0"`
	Cost int64  `json:"cost" yaml:"cost" toml:"cost" validate:"gte=0"`
	Via  string `json:"via,omitempty" yaml:"via,omitempty" toml:"via,omitempty"` // What the link runs over, e.g. a security group
}

// Document is a complete network description
type Document struct {
	Computers   []Computer   `json:"computers" yaml:"computers" toml:"computers" validate:"dive"`
	Connections []Connection `json:"connections" yaml:"connections" toml:"connections" validate:"dive"`
}

// Nodes converts the computers to engine records
func (d *Document) Nodes() []graph.Node {
	nodes := make([]graph.Node, len(d.Computers))
	for i, c := range d.Computers {
		nodes[i] = graph.Node{
			ID:             c.ID,
			Clearance:      c.Clearance,
			ActivationCost: graph.Time(c.ActivationCost),
		}
	}
	return nodes
}

// Edges converts the connections to engine records
func (d *Document) Edges() []graph.Edge {
	edges := make([]graph.Edge, len(d.Connections))
	for i, c := range d.Connections {
		edges[i] = graph.Edge{A: c.A, B: c.B, Cost: graph.Time(c.Cost)}
	}
	return edges
}

// Name returns a display label for a computer
func (d *Document) Name(id int) string {
	if id >= 0 && id < len(d.Computers) && d.Computers[id].Name != "" {
		return d.Computers[id].Name
	}
	return "#" + strconv.Itoa(id)
}

// Lookup resolves a computer given either by id or by name
func (d *Document) Lookup(ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if id < 0 || id >= len(d.Computers) {
			return 0, fmt.Errorf("computer %d out of range, have %d computers", id, len(d.Computers))
		}
		return id, nil
	}

	for _, c := range d.Computers {
		if c.Name == ref {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown computer: %s", ref)
}

// LookupAll resolves a sequence of computer references
func (d *Document) LookupAll(refs []string) ([]int, error) {
	ids := make([]int, len(refs))
	for i, ref := range refs {
		id, err := d.Lookup(ref)
		if err != nil {
			return nil, fmt.Errorf("path entry %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// Package discover inventories AWS resources and turns them into a network
// document: every workload becomes a computer and workloads sharing a
// security group are connected.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/pfrederiksen/breach-radius/internal/awsx"
	"github.com/pfrederiksen/breach-radius/internal/metrics"
	"github.com/pfrederiksen/breach-radius/internal/network"
)

// Resource types
const (
	ResourceTypeEC2Instance  = "EC2Instance"
	ResourceTypeECSService   = "ECSService"
	ResourceTypeLambda       = "Lambda"
	ResourceTypeRDSInstance  = "RDSInstance"
	ResourceTypeLoadBalancer = "LoadBalancer"
)

// Options configures the discovery process
type Options struct {
	MaxNodes      int
	ClearanceTag  string
	ActivationTag string
	TraversalTag  string
	DefaultCost   int64
	Metrics       *metrics.Registry
}

// Host is one discovered workload
type Host struct {
	ID             string
	Type           string
	Name           string
	DNSName        string
	Tags           map[string]string
	SecurityGroups []string
}

// Discoverer orchestrates resource discovery
type Discoverer struct {
	clients *awsx.Clients
	opts    *Options
}

// New creates a new Discoverer
func New(clients *awsx.Clients, opts *Options) *Discoverer {
	return &Discoverer{
		clients: clients,
		opts:    opts,
	}
}

// inventory lists one resource type
type inventory struct {
	resourceType string
	list         func(context.Context) ([]Host, error)
}

// Discover lists every supported resource type and builds a network document
func (d *Discoverer) Discover(ctx context.Context) (*network.Document, error) {
	slog.Debug("Starting discovery", "maxNodes", d.opts.MaxNodes)

	inventories := []inventory{
		{ResourceTypeEC2Instance, d.listInstances},
		{ResourceTypeECSService, d.listECSServices},
		{ResourceTypeLambda, d.listFunctions},
		{ResourceTypeRDSInstance, d.listDBInstances},
		{ResourceTypeLoadBalancer, d.listLoadBalancers},
	}

	var hosts []Host
	failures := 0
	for _, inv := range inventories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := inv.list(ctx)
		d.opts.Metrics.RecordDiscovery(inv.resourceType, len(found), err)
		if err != nil {
			// Continue despite errors
			slog.Warn("Discovery error for resource type",
				"type", inv.resourceType,
				"error", err)
			failures++
			continue
		}

		slog.Debug("Listed resources", "type", inv.resourceType, "count", len(found))
		hosts = append(hosts, found...)

		if d.opts.MaxNodes > 0 && len(hosts) >= d.opts.MaxNodes {
			slog.Warn("Reached max nodes limit", "maxNodes", d.opts.MaxNodes)
			hosts = hosts[:d.opts.MaxNodes]
			break
		}
	}

	if failures == len(inventories) {
		return nil, fmt.Errorf("every AWS inventory call failed")
	}

	if err := d.nameLoadBalancers(ctx, hosts); err != nil {
		slog.Warn("Failed to name load balancers from Route53", "error", err)
	}

	costs, err := d.securityGroupCosts(ctx, securityGroupIDs(hosts))
	if err != nil {
		slog.Warn("Failed to read security group costs, using default", "error", err)
		costs = nil
	}

	doc := BuildDocument(hosts, costs, d.opts)
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("discovered network is invalid: %w", err)
	}

	slog.Info("Discovery complete",
		"computers", len(doc.Computers),
		"connections", len(doc.Connections))

	return doc, nil
}

// BuildDocument converts hosts to computers and joins every pair of hosts
// once per security group they share. costs holds per-group traversal costs;
// groups missing from it use opts.DefaultCost.
func BuildDocument(hosts []Host, costs map[string]int64, opts *Options) *network.Document {
	doc := &network.Document{
		Computers:   make([]network.Computer, len(hosts)),
		Connections: []network.Connection{},
	}

	used := make(map[string]bool, len(hosts))
	members := make(map[string][]int)

	for i, h := range hosts {
		doc.Computers[i] = network.Computer{
			ID:             i,
			Name:           uniqueName(h, i, used),
			Type:           h.Type,
			Clearance:      int(tagValue(h, opts.ClearanceTag)),
			ActivationCost: tagValue(h, opts.ActivationTag),
			Tags:           h.Tags,
		}

		groups := slices.Clone(h.SecurityGroups)
		slices.Sort(groups)
		for _, sg := range slices.Compact(groups) {
			members[sg] = append(members[sg], i)
		}
	}

	groups := make([]string, 0, len(members))
	for sg := range members {
		groups = append(groups, sg)
	}
	slices.Sort(groups)

	for _, sg := range groups {
		cost, ok := costs[sg]
		if !ok {
			cost = opts.DefaultCost
		}
		ids := members[sg]
		for a := 0; a < len(ids); a++ {
			for b := a + 1; b < len(ids); b++ {
				doc.Connections = append(doc.Connections, network.Connection{
					A:    ids[a],
					B:    ids[b],
					Cost: cost,
					Via:  sg,
				})
			}
		}
	}

	return doc
}

// tagValue reads a non-negative integer tag, 0 when absent or malformed
func tagValue(h Host, key string) int64 {
	raw, ok := h.Tags[key]
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		slog.Warn("Ignoring malformed tag", "resource", h.ID, "tag", key, "value", raw)
		return 0
	}
	return v
}

// uniqueName keeps computer names distinct so they can be looked up
func uniqueName(h Host, index int, used map[string]bool) string {
	name := h.Name
	if name == "" {
		name = h.ID
	}
	if used[name] {
		name = h.Type + "/" + name
	}
	if used[name] {
		name = fmt.Sprintf("%s-%d", name, index)
	}
	used[name] = true
	return name
}

func securityGroupIDs(hosts []Host) []string {
	var ids []string
	for _, h := range hosts {
		ids = append(ids, h.SecurityGroups...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Helper to extract name from ARN
func extractNameFromARN(arn string) string {
	parts := strings.Split(arn, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return arn
}

package discover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	route53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// nameLoadBalancers renames load balancers after the first Route53 alias
// record pointing at them
func (d *Discoverer) nameLoadBalancers(ctx context.Context, hosts []Host) error {
	targets := make(map[string]bool)
	for _, h := range hosts {
		if h.Type == ResourceTypeLoadBalancer && h.DNSName != "" {
			targets[normalizeDNS(h.DNSName)] = true
		}
	}
	if len(targets) == 0 {
		return nil
	}

	hostedZones, err := d.listHostedZones(ctx)
	if err != nil {
		return err
	}

	aliases := make(map[string]string)
	for _, zone := range hostedZones {
		if zone.Id == nil {
			continue
		}

		records, err := d.listRecords(ctx, *zone.Id)
		if err != nil {
			slog.Warn("Failed to search hosted zone for aliases",
				"zoneId", *zone.Id,
				"error", err)
			continue
		}
		matchAliases(records, targets, aliases)
	}

	for i := range hosts {
		if hosts[i].Type != ResourceTypeLoadBalancer {
			continue
		}
		if alias, ok := aliases[normalizeDNS(hosts[i].DNSName)]; ok {
			slog.Debug("Named load balancer from alias", "name", hosts[i].Name, "alias", alias)
			hosts[i].Name = alias
		}
	}

	return nil
}

// listHostedZones lists all Route53 hosted zones
func (d *Discoverer) listHostedZones(ctx context.Context) ([]route53types.HostedZone, error) {
	var zones []route53types.HostedZone

	paginator := route53.NewListHostedZonesPaginator(d.clients.Route53, &route53.ListHostedZonesInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list hosted zones: %w", err)
		}
		zones = append(zones, output.HostedZones...)
	}

	return zones, nil
}

func (d *Discoverer) listRecords(ctx context.Context, hostedZoneID string) ([]route53types.ResourceRecordSet, error) {
	var records []route53types.ResourceRecordSet

	paginator := route53.NewListResourceRecordSetsPaginator(d.clients.Route53, &route53.ListResourceRecordSetsInput{
		HostedZoneId: aws.String(hostedZoneID),
	})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resource record sets: %w", err)
		}
		records = append(records, output.ResourceRecordSets...)
	}

	return records, nil
}

// matchAliases records the first alias name found for each target
func matchAliases(records []route53types.ResourceRecordSet, targets map[string]bool, aliases map[string]string) {
	for _, record := range records {
		if record.AliasTarget == nil || record.AliasTarget.DNSName == nil || record.Name == nil {
			continue
		}

		target := normalizeDNS(*record.AliasTarget.DNSName)
		if !targets[target] {
			continue
		}
		if _, seen := aliases[target]; !seen {
			aliases[target] = strings.TrimSuffix(*record.Name, ".")
		}
	}
}

// normalizeDNS lowercases a DNS name and drops the trailing dot and the
// dualstack prefix Route53 adds to load balancer targets
func normalizeDNS(name string) string {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	return strings.TrimPrefix(name, "dualstack.")
}

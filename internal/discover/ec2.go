package discover

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DescribeSecurityGroups accepts at most this many group ids per call
const securityGroupBatch = 200

// listInstances lists running EC2 instances
func (d *Discoverer) listInstances(ctx context.Context) ([]Host, error) {
	var hosts []Host

	paginator := ec2.NewDescribeInstancesPaginator(d.clients.EC2, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"pending", "running"}},
		},
	})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}
		for _, reservation := range output.Reservations {
			for i := range reservation.Instances {
				hosts = append(hosts, instanceToHost(&reservation.Instances[i]))
			}
		}
	}

	return hosts, nil
}

// securityGroupCosts reads the traversal cost tag of each security group
func (d *Discoverer) securityGroupCosts(ctx context.Context, groupIDs []string) (map[string]int64, error) {
	costs := make(map[string]int64)

	for start := 0; start < len(groupIDs); start += securityGroupBatch {
		end := min(start+securityGroupBatch, len(groupIDs))

		paginator := ec2.NewDescribeSecurityGroupsPaginator(d.clients.EC2, &ec2.DescribeSecurityGroupsInput{
			GroupIds: groupIDs[start:end],
		})
		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to describe security groups: %w", err)
			}
			for i := range output.SecurityGroups {
				sg := &output.SecurityGroups[i]
				if cost, ok := traversalCost(sg, d.opts.TraversalTag); ok {
					costs[aws.ToString(sg.GroupId)] = cost
				}
			}
		}
	}

	slog.Debug("Read security group costs", "groups", len(groupIDs), "tagged", len(costs))
	return costs, nil
}

func instanceToHost(inst *ec2types.Instance) Host {
	tags := ec2Tags(inst.Tags)

	name := tags["Name"]
	if name == "" {
		name = aws.ToString(inst.InstanceId)
	}

	groups := make([]string, 0, len(inst.SecurityGroups))
	for _, sg := range inst.SecurityGroups {
		if sg.GroupId != nil {
			groups = append(groups, *sg.GroupId)
		}
	}

	return Host{
		ID:             aws.ToString(inst.InstanceId),
		Type:           ResourceTypeEC2Instance,
		Name:           name,
		DNSName:        aws.ToString(inst.PrivateDnsName),
		Tags:           tags,
		SecurityGroups: groups,
	}
}

// traversalCost reads a security group's cost tag
func traversalCost(sg *ec2types.SecurityGroup, key string) (int64, bool) {
	for _, tag := range sg.Tags {
		if aws.ToString(tag.Key) != key {
			continue
		}
		cost, err := strconv.ParseInt(strings.TrimSpace(aws.ToString(tag.Value)), 10, 64)
		if err != nil || cost < 0 {
			slog.Warn("Ignoring malformed traversal cost",
				"groupId", aws.ToString(sg.GroupId),
				"value", aws.ToString(tag.Value))
			return 0, false
		}
		return cost, true
	}
	return 0, false
}

func ec2Tags(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil {
			out[*tag.Key] = aws.ToString(tag.Value)
		}
	}
	return out
}

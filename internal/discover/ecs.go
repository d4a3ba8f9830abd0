package discover

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// DescribeServices accepts at most this many services per call
const ecsServiceBatch = 10

// listECSServices lists services of every ECS cluster
func (d *Discoverer) listECSServices(ctx context.Context) ([]Host, error) {
	var hosts []Host

	clusters := ecs.NewListClustersPaginator(d.clients.ECS, &ecs.ListClustersInput{})
	for clusters.HasMorePages() {
		output, err := clusters.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS clusters: %w", err)
		}

		for _, clusterARN := range output.ClusterArns {
			found, err := d.listClusterServices(ctx, clusterARN)
			if err != nil {
				return nil, err
			}
			hosts = append(hosts, found...)
		}
	}

	return hosts, nil
}

func (d *Discoverer) listClusterServices(ctx context.Context, clusterARN string) ([]Host, error) {
	var arns []string

	paginator := ecs.NewListServicesPaginator(d.clients.ECS, &ecs.ListServicesInput{
		Cluster: aws.String(clusterARN),
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list services of %s: %w", clusterARN, err)
		}
		arns = append(arns, output.ServiceArns...)
	}

	cluster := extractNameFromARN(clusterARN)
	hosts := make([]Host, 0, len(arns))

	for start := 0; start < len(arns); start += ecsServiceBatch {
		end := min(start+ecsServiceBatch, len(arns))

		output, err := d.clients.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(clusterARN),
			Services: arns[start:end],
			Include:  []ecstypes.ServiceField{ecstypes.ServiceFieldTags},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECS services: %w", err)
		}

		for _, failure := range output.Failures {
			slog.Warn("ECS service not described",
				"arn", aws.ToString(failure.Arn),
				"reason", aws.ToString(failure.Reason))
		}
		for i := range output.Services {
			hosts = append(hosts, ecsServiceToHost(&output.Services[i], cluster))
		}
	}

	return hosts, nil
}

func ecsServiceToHost(svc *ecstypes.Service, cluster string) Host {
	tags := make(map[string]string, len(svc.Tags))
	for _, tag := range svc.Tags {
		if tag.Key != nil {
			tags[*tag.Key] = aws.ToString(tag.Value)
		}
	}

	var groups []string
	if svc.NetworkConfiguration != nil && svc.NetworkConfiguration.AwsvpcConfiguration != nil {
		groups = append(groups, svc.NetworkConfiguration.AwsvpcConfiguration.SecurityGroups...)
	}

	name := aws.ToString(svc.ServiceName)
	if cluster != "" {
		name = cluster + "/" + name
	}

	return Host{
		ID:             aws.ToString(svc.ServiceArn),
		Type:           ResourceTypeECSService,
		Name:           name,
		Tags:           tags,
		SecurityGroups: groups,
	}
}

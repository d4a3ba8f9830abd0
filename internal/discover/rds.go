package discover

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// listDBInstances lists RDS instances
func (d *Discoverer) listDBInstances(ctx context.Context) ([]Host, error) {
	var hosts []Host

	paginator := rds.NewDescribeDBInstancesPaginator(d.clients.RDS, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe DB instances: %w", err)
		}
		for i := range output.DBInstances {
			hosts = append(hosts, rdsInstanceToHost(&output.DBInstances[i]))
		}
	}

	return hosts, nil
}

// Helper function to convert RDS instance to a host
func rdsInstanceToHost(instance *rdstypes.DBInstance) Host {
	tags := make(map[string]string, len(instance.TagList))
	for _, tag := range instance.TagList {
		if tag.Key != nil {
			tags[*tag.Key] = aws.ToString(tag.Value)
		}
	}

	groups := make([]string, 0, len(instance.VpcSecurityGroups))
	for _, sg := range instance.VpcSecurityGroups {
		if sg.VpcSecurityGroupId != nil {
			groups = append(groups, *sg.VpcSecurityGroupId)
		}
	}

	var dnsName string
	if instance.Endpoint != nil {
		dnsName = aws.ToString(instance.Endpoint.Address)
	}

	return Host{
		ID:             aws.ToString(instance.DBInstanceArn),
		Type:           ResourceTypeRDSInstance,
		Name:           aws.ToString(instance.DBInstanceIdentifier),
		DNSName:        dnsName,
		Tags:           tags,
		SecurityGroups: groups,
	}
}

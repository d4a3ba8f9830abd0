package discover

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// DescribeTags accepts at most this many ARNs per call
const elbTagBatch = 20

// listLoadBalancers lists load balancers with their tags
func (d *Discoverer) listLoadBalancers(ctx context.Context) ([]Host, error) {
	var lbs []elbv2types.LoadBalancer

	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(d.clients.ELBv2, &elasticloadbalancingv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}
		lbs = append(lbs, output.LoadBalancers...)
	}

	tags := make(map[string]map[string]string, len(lbs))
	for start := 0; start < len(lbs); start += elbTagBatch {
		end := min(start+elbTagBatch, len(lbs))

		arns := make([]string, 0, end-start)
		for _, lb := range lbs[start:end] {
			arns = append(arns, aws.ToString(lb.LoadBalancerArn))
		}

		output, err := d.clients.ELBv2.DescribeTags(ctx, &elasticloadbalancingv2.DescribeTagsInput{
			ResourceArns: arns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancer tags: %w", err)
		}
		for _, desc := range output.TagDescriptions {
			tags[aws.ToString(desc.ResourceArn)] = elbTags(desc.Tags)
		}
	}

	hosts := make([]Host, 0, len(lbs))
	for i := range lbs {
		hosts = append(hosts, loadBalancerToHost(&lbs[i], tags[aws.ToString(lbs[i].LoadBalancerArn)]))
	}
	return hosts, nil
}

func loadBalancerToHost(lb *elbv2types.LoadBalancer, tags map[string]string) Host {
	if tags == nil {
		tags = map[string]string{}
	}

	return Host{
		ID:             aws.ToString(lb.LoadBalancerArn),
		Type:           ResourceTypeLoadBalancer,
		Name:           aws.ToString(lb.LoadBalancerName),
		DNSName:        aws.ToString(lb.DNSName),
		Tags:           tags,
		SecurityGroups: append([]string(nil), lb.SecurityGroups...),
	}
}

func elbTags(tags []elbv2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil {
			out[*tag.Key] = aws.ToString(tag.Value)
		}
	}
	return out
}

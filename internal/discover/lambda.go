package discover

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// listFunctions lists VPC-attached Lambda functions. Functions outside a VPC
// share no security group and could never be connected.
func (d *Discoverer) listFunctions(ctx context.Context) ([]Host, error) {
	var hosts []Host

	paginator := lambda.NewListFunctionsPaginator(d.clients.Lambda, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list functions: %w", err)
		}

		for i := range output.Functions {
			fn := &output.Functions[i]
			if fn.VpcConfig == nil || len(fn.VpcConfig.SecurityGroupIds) == 0 {
				continue
			}

			tags, err := d.clients.Lambda.ListTags(ctx, &lambda.ListTagsInput{
				Resource: fn.FunctionArn,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to list tags of %s: %w", aws.ToString(fn.FunctionName), err)
			}
			hosts = append(hosts, lambdaFunctionToHost(fn, tags.Tags))
		}
	}

	return hosts, nil
}

func lambdaFunctionToHost(fn *lambdatypes.FunctionConfiguration, tags map[string]string) Host {
	var groups []string
	if fn.VpcConfig != nil {
		groups = append(groups, fn.VpcConfig.SecurityGroupIds...)
	}
	if tags == nil {
		tags = map[string]string{}
	}

	return Host{
		ID:             aws.ToString(fn.FunctionArn),
		Type:           ResourceTypeLambda,
		Name:           aws.ToString(fn.FunctionName),
		Tags:           tags,
		SecurityGroups: groups,
	}
}

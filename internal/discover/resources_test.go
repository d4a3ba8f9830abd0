package discover

import (
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	route53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

func TestInstanceToHost(t *testing.T) {
	inst := &ec2types.Instance{
		InstanceId:     aws.String("i-0abc"),
		PrivateDnsName: aws.String("ip-10-0-0-1.ec2.internal"),
		Tags: []ec2types.Tag{
			{Key: aws.String("Name"), Value: aws.String("bastion")},
			{Key: aws.String("breach-radius/clearance"), Value: aws.String("2")},
		},
		SecurityGroups: []ec2types.GroupIdentifier{
			{GroupId: aws.String("sg-1")},
			{GroupName: aws.String("no-id")},
		},
	}

	h := instanceToHost(inst)

	if h.ID != "i-0abc" || h.Name != "bastion" || h.Type != ResourceTypeEC2Instance {
		t.Errorf("Unexpected host: %+v", h)
	}
	if h.Tags["breach-radius/clearance"] != "2" {
		t.Errorf("Expected clearance tag, got %v", h.Tags)
	}
	if !reflect.DeepEqual(h.SecurityGroups, []string{"sg-1"}) {
		t.Errorf("Expected [sg-1], got %v", h.SecurityGroups)
	}

	// Unnamed instances fall back to their id
	h = instanceToHost(&ec2types.Instance{InstanceId: aws.String("i-0def")})
	if h.Name != "i-0def" {
		t.Errorf("Expected name i-0def, got %s", h.Name)
	}
}

func TestTraversalCost(t *testing.T) {
	key := "breach-radius/traversal-cost"

	tests := []struct {
		name   string
		tags   []ec2types.Tag
		want   int64
		wantOK bool
	}{
		{name: "tagged", tags: []ec2types.Tag{{Key: aws.String(key), Value: aws.String("15")}}, want: 15, wantOK: true},
		{name: "untagged", tags: []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("web")}}},
		{name: "malformed", tags: []ec2types.Tag{{Key: aws.String(key), Value: aws.String("slow")}}},
		{name: "negative", tags: []ec2types.Tag{{Key: aws.String(key), Value: aws.String("-1")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := &ec2types.SecurityGroup{GroupId: aws.String("sg-1"), Tags: tt.tags}
			got, ok := traversalCost(sg, key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("traversalCost() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestECSServiceToHost(t *testing.T) {
	svc := &ecstypes.Service{
		ServiceArn:  aws.String("arn:aws:ecs:us-east-1:123456789012:service/prod/api"),
		ServiceName: aws.String("api"),
		Tags:        []ecstypes.Tag{{Key: aws.String("team"), Value: aws.String("core")}},
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				SecurityGroups: []string{"sg-1", "sg-2"},
			},
		},
	}

	h := ecsServiceToHost(svc, "prod")

	if h.Name != "prod/api" {
		t.Errorf("Expected name prod/api, got %s", h.Name)
	}
	if h.Type != ResourceTypeECSService || h.Tags["team"] != "core" {
		t.Errorf("Unexpected host: %+v", h)
	}
	if !reflect.DeepEqual(h.SecurityGroups, []string{"sg-1", "sg-2"}) {
		t.Errorf("Unexpected security groups: %v", h.SecurityGroups)
	}

	// Bridge networking has no security groups of its own
	h = ecsServiceToHost(&ecstypes.Service{ServiceName: aws.String("worker")}, "")
	if h.Name != "worker" || len(h.SecurityGroups) != 0 {
		t.Errorf("Unexpected host: %+v", h)
	}
}

func TestLambdaFunctionToHost(t *testing.T) {
	fn := &lambdatypes.FunctionConfiguration{
		FunctionArn:  aws.String("arn:aws:lambda:us-east-1:123456789012:function:resize"),
		FunctionName: aws.String("resize"),
		VpcConfig:    &lambdatypes.VpcConfigResponse{SecurityGroupIds: []string{"sg-9"}},
	}

	h := lambdaFunctionToHost(fn, nil)

	if h.Name != "resize" || h.Type != ResourceTypeLambda {
		t.Errorf("Unexpected host: %+v", h)
	}
	if h.Tags == nil {
		t.Error("Tags should never be nil")
	}
	if !reflect.DeepEqual(h.SecurityGroups, []string{"sg-9"}) {
		t.Errorf("Unexpected security groups: %v", h.SecurityGroups)
	}
}

func TestRDSInstanceToHost(t *testing.T) {
	instance := &rdstypes.DBInstance{
		DBInstanceArn:        aws.String("arn:aws:rds:us-east-1:123456789012:db:orders"),
		DBInstanceIdentifier: aws.String("orders"),
		Endpoint:             &rdstypes.Endpoint{Address: aws.String("orders.abc123.us-east-1.rds.amazonaws.com")},
		TagList:              []rdstypes.Tag{{Key: aws.String("breach-radius/activation-cost"), Value: aws.String("30")}},
		VpcSecurityGroups: []rdstypes.VpcSecurityGroupMembership{
			{VpcSecurityGroupId: aws.String("sg-db")},
		},
	}

	h := rdsInstanceToHost(instance)

	if h.ID != "arn:aws:rds:us-east-1:123456789012:db:orders" {
		t.Errorf("Unexpected ID %s", h.ID)
	}
	if h.Name != "orders" || h.Type != ResourceTypeRDSInstance {
		t.Errorf("Unexpected host: %+v", h)
	}
	if h.DNSName != "orders.abc123.us-east-1.rds.amazonaws.com" {
		t.Errorf("Unexpected DNS name %s", h.DNSName)
	}
	if h.Tags["breach-radius/activation-cost"] != "30" {
		t.Errorf("Expected activation tag, got %v", h.Tags)
	}
	if !reflect.DeepEqual(h.SecurityGroups, []string{"sg-db"}) {
		t.Errorf("Unexpected security groups: %v", h.SecurityGroups)
	}
}

func TestLoadBalancerToHost(t *testing.T) {
	lb := &elbv2types.LoadBalancer{
		LoadBalancerArn:  aws.String("arn:aws:elasticloadbalancing:us-east-1:123456789012:loadbalancer/app/edge/abc"),
		LoadBalancerName: aws.String("edge"),
		DNSName:          aws.String("edge-123.us-east-1.elb.amazonaws.com"),
		SecurityGroups:   []string{"sg-lb"},
	}

	h := loadBalancerToHost(lb, elbTags([]elbv2types.Tag{{Key: aws.String("env"), Value: aws.String("prod")}}))

	if h.Name != "edge" || h.Type != ResourceTypeLoadBalancer {
		t.Errorf("Unexpected host: %+v", h)
	}
	if h.Tags["env"] != "prod" {
		t.Errorf("Expected env tag, got %v", h.Tags)
	}
	if !reflect.DeepEqual(h.SecurityGroups, []string{"sg-lb"}) {
		t.Errorf("Unexpected security groups: %v", h.SecurityGroups)
	}
}

func TestMatchAliases(t *testing.T) {
	records := []route53types.ResourceRecordSet{
		{Name: aws.String("plain.example.com."), Type: route53types.RRTypeA},
		{
			Name:        aws.String("www.example.com."),
			Type:        route53types.RRTypeA,
			AliasTarget: &route53types.AliasTarget{DNSName: aws.String("dualstack.Edge-123.us-east-1.elb.amazonaws.com.")},
		},
		{
			Name:        aws.String("shop.example.com."),
			Type:        route53types.RRTypeA,
			AliasTarget: &route53types.AliasTarget{DNSName: aws.String("edge-123.us-east-1.elb.amazonaws.com")},
		},
		{
			Name:        aws.String("other.example.com."),
			Type:        route53types.RRTypeA,
			AliasTarget: &route53types.AliasTarget{DNSName: aws.String("cdn.example.net.")},
		},
	}

	aliases := make(map[string]string)
	matchAliases(records, map[string]bool{"edge-123.us-east-1.elb.amazonaws.com": true}, aliases)

	want := map[string]string{"edge-123.us-east-1.elb.amazonaws.com": "www.example.com"}
	if !reflect.DeepEqual(aliases, want) {
		t.Errorf("matchAliases() = %v, want %v", aliases, want)
	}
}

func TestNormalizeDNS(t *testing.T) {
	tests := map[string]string{
		"Edge-123.elb.amazonaws.com.":           "edge-123.elb.amazonaws.com",
		"dualstack.edge-123.elb.amazonaws.com.": "edge-123.elb.amazonaws.com",
		"edge-123.elb.amazonaws.com":            "edge-123.elb.amazonaws.com",
	}
	for in, want := range tests {
		if got := normalizeDNS(in); got != want {
			t.Errorf("normalizeDNS(%q) = %q, want %q", in, got, want)
		}
	}
}

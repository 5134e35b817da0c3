package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

const serviceELBv2 = "elasticloadbalancing"

// SDKLoadBalancerClient implements LoadBalancerClient using AWS SDK v2
type SDKLoadBalancerClient struct {
	client *elbv2.Client
}

// NewSDKLoadBalancerClient creates a new ELBv2 client using the provided AWS config
func NewSDKLoadBalancerClient(cfg aws.Config) *SDKLoadBalancerClient {
	return &SDKLoadBalancerClient{
		client: elbv2.NewFromConfig(cfg),
	}
}

func (c *SDKLoadBalancerClient) ListLoadBalancers(ctx context.Context) ([]LoadBalancer, error) {
	var lbs []LoadBalancer

	paginator := elbv2.NewDescribeLoadBalancersPaginator(c.client, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newProviderError(serviceELBv2, "describe load balancers", err)
		}

		for _, lb := range page.LoadBalancers {
			lbs = append(lbs, LoadBalancer{
				ARN:                   aws.ToString(lb.LoadBalancerArn),
				Name:                  aws.ToString(lb.LoadBalancerName),
				DNSName:               aws.ToString(lb.DNSName),
				CanonicalHostedZoneID: aws.ToString(lb.CanonicalHostedZoneId),
				Type:                  string(lb.Type),
				Scheme:                string(lb.Scheme),
			})
		}
	}

	return lbs, nil
}

func (c *SDKLoadBalancerClient) ListListeners(ctx context.Context, loadBalancerArn string) ([]Listener, error) {
	var listeners []Listener

	paginator := elbv2.NewDescribeListenersPaginator(c.client, &elbv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(loadBalancerArn),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newProviderError(serviceELBv2, "describe listeners", err)
		}

		for _, l := range page.Listeners {
			listener := Listener{
				ARN:      aws.ToString(l.ListenerArn),
				Port:     aws.ToInt32(l.Port),
				Protocol: string(l.Protocol),
			}
			for _, cert := range l.Certificates {
				listener.Certificates = append(listener.Certificates, aws.ToString(cert.CertificateArn))
			}
			listeners = append(listeners, listener)
		}
	}

	return listeners, nil
}

func (c *SDKLoadBalancerClient) ModifyListener(ctx context.Context, mod ListenerModification) error {
	if _, err := c.client.ModifyListener(ctx, modifyListenerInput(mod)); err != nil {
		return newProviderError(serviceELBv2, "modify listener", err)
	}

	return nil
}

// modifyListenerInput sets the listener's default certificate. IsDefault is
// output-only; the certificate passed here becomes the default.
func modifyListenerInput(mod ListenerModification) *elbv2.ModifyListenerInput {
	input := &elbv2.ModifyListenerInput{
		ListenerArn: aws.String(mod.ListenerARN),
		Certificates: []types.Certificate{
			{CertificateArn: aws.String(mod.CertificateARN)},
		},
	}
	if mod.Protocol != "" {
		input.Protocol = types.ProtocolEnum(mod.Protocol)
	}
	return input
}

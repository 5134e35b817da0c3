package aws

import (
	"context"
)

// LoadBalancerClient defines the interface for Elastic Load Balancing v2 operations
type LoadBalancerClient interface {
	// ListLoadBalancers returns every application and network load balancer in the region
	ListLoadBalancers(ctx context.Context) ([]LoadBalancer, error)

	// ListListeners returns the listeners of a load balancer
	ListListeners(ctx context.Context, loadBalancerArn string) ([]Listener, error)

	// ModifyListener sets the default certificate (and optionally the protocol) of a listener
	ModifyListener(ctx context.Context, mod ListenerModification) error
}

// LoadBalancer represents an ELBv2 load balancer
type LoadBalancer struct {
	ARN                   string
	Name                  string
	DNSName               string
	CanonicalHostedZoneID string
	Type                  string // application, network, gateway
	Scheme                string // internet-facing, internal
}

// Listener represents an ELBv2 listener
type Listener struct {
	ARN          string
	Port         int32
	Protocol     string // HTTP, HTTPS, TCP, TLS, UDP, TCP_UDP
	Certificates []string
}

// ListenerModification describes a ModifyListener call
type ListenerModification struct {
	ListenerARN    string
	CertificateARN string

	// Protocol is left unchanged when empty
	Protocol string
}

// Package listener attaches TLS certificates to the HTTPS listeners of an
// Elastic Load Balancing v2 load balancer.
package listener

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/aws"
)

// DefaultPort is the listener port that receives the certificate
const DefaultPort int32 = 443

var (
	// ErrLoadBalancerNotFound is returned when no load balancer has the requested DNS name
	ErrLoadBalancerNotFound = errors.New("load balancer not found")

	// ErrCertificateNotIssued is returned when ACM reports a status other than ISSUED
	ErrCertificateNotIssued = errors.New("certificate is not issued")

	// ErrNoCertificate is returned when the mapping row carries no certificate id
	ErrNoCertificate = errors.New("no certificate id")
)

// Fixer finds a load balancer by DNS name and updates its port 443 listeners
type Fixer struct {
	LoadBalancers aws.LoadBalancerClient

	// ACM is optional; when nil certificates are attached without a status check
	ACM aws.ACMClient

	DryRun bool
	Port   int32
}

// ListenerChange describes one listener touched by AttachCertificate
type ListenerChange struct {
	ListenerARN    string
	Port           int32
	FromProtocol   string
	ToProtocol     string
	CertificateARN string
}

// Result of AttachCertificate. Skipped is set when dry-run suppressed the writes.
type Result struct {
	LoadBalancerARN string
	Listeners       []ListenerChange
	Skipped         bool
}

// New creates a Fixer for port 443
func New(lbClient aws.LoadBalancerClient, acmClient aws.ACMClient, dryRun bool) *Fixer {
	return &Fixer{
		LoadBalancers: lbClient,
		ACM:           acmClient,
		DryRun:        dryRun,
		Port:          DefaultPort,
	}
}

// FindLoadBalancer returns the load balancer whose DNS name equals dnsName.
// The comparison ignores case and a trailing dot, so the alias form
// "lb.example." matches the API form "lb.example".
func (f *Fixer) FindLoadBalancer(ctx context.Context, dnsName string) (*aws.LoadBalancer, error) {
	lbs, err := f.LoadBalancers.ListLoadBalancers(ctx)
	if err != nil {
		return nil, err
	}

	want := canonicalDNSName(dnsName)
	for i := range lbs {
		if canonicalDNSName(lbs[i].DNSName) == want {
			log.FromContext(ctx).V(1).Info("Found load balancer",
				"arn", lbs[i].ARN, "type", lbs[i].Type, "scheme", lbs[i].Scheme)
			return &lbs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLoadBalancerNotFound, dnsName)
}

// AttachCertificate makes certificateARN the default certificate of every
// listener on the fixer's port. Plaintext listeners are upgraded on the way:
// TCP becomes TLS on network load balancers and HTTP becomes HTTPS on
// application load balancers.
func (f *Fixer) AttachCertificate(ctx context.Context, loadBalancerDNSName, certificateARN string) (*Result, error) {
	logger := log.FromContext(ctx).WithValues("loadBalancer", loadBalancerDNSName)

	if certificateARN == "" {
		return nil, ErrNoCertificate
	}

	lb, err := f.FindLoadBalancer(ctx, loadBalancerDNSName)
	if err != nil {
		return nil, err
	}

	if f.ACM != nil && isACMCertificate(certificateARN) {
		cert, err := f.ACM.DescribeCertificate(ctx, certificateARN)
		if err != nil {
			return nil, err
		}
		if cert.Status != aws.CertificateStatusIssued {
			return nil, fmt.Errorf("%w: %s is %s", ErrCertificateNotIssued, certificateARN, cert.Status)
		}
		logger.V(1).Info("Certificate issued", "domain", cert.Domain, "inUseBy", cert.InUseBy)
	}

	listeners, err := f.LoadBalancers.ListListeners(ctx, lb.ARN)
	if err != nil {
		return nil, err
	}

	port := f.Port
	if port == 0 {
		port = DefaultPort
	}

	result := &Result{LoadBalancerARN: lb.ARN, Skipped: f.DryRun}
	for _, l := range listeners {
		if l.Port != port {
			continue
		}

		change := ListenerChange{
			ListenerARN:    l.ARN,
			Port:           l.Port,
			FromProtocol:   l.Protocol,
			ToProtocol:     upgradedProtocol(lb.Type, l.Protocol),
			CertificateARN: certificateARN,
		}
		result.Listeners = append(result.Listeners, change)

		if f.DryRun {
			logger.Info("Dry run, skipping listener update",
				"listener", l.ARN,
				"protocol", change.ToProtocol,
				"certificateArn", certificateARN)
			continue
		}

		mod := aws.ListenerModification{
			ListenerARN:    l.ARN,
			CertificateARN: certificateARN,
		}
		if change.ToProtocol != change.FromProtocol {
			mod.Protocol = change.ToProtocol
		}
		if err := f.LoadBalancers.ModifyListener(ctx, mod); err != nil {
			return result, err
		}
		logger.Info("Updated listener certificate",
			"listener", l.ARN,
			"protocol", change.ToProtocol,
			"certificateArn", certificateARN)
	}

	if len(result.Listeners) == 0 {
		logger.Info("Load balancer has no listener on port", "port", port)
	}
	return result, nil
}

// ResolveTarget builds the alias target for a load balancer DNS name. The
// hosted zone ID comes from the load balancer itself when it can be found,
// otherwise from the well-known per-region table. It stays empty when
// neither source knows the name. A failed ELB read falls back to the table
// as well.
func (f *Fixer) ResolveTarget(ctx context.Context, loadBalancerDNSName string) aws.AliasTarget {
	logger := log.FromContext(ctx)

	target := aws.AliasTarget{DNSName: fqdn(loadBalancerDNSName)}

	lb, err := f.FindLoadBalancer(ctx, loadBalancerDNSName)
	if err == nil {
		target.HostedZoneID = lb.CanonicalHostedZoneID
		return target
	}
	if !errors.Is(err, ErrLoadBalancerNotFound) {
		logger.Info("Load balancer lookup failed, using region table", "dnsName", loadBalancerDNSName,
			"reason", err.Error(), "code", aws.ErrorCode(err))
	}

	zoneID, err := aws.HostedZoneIDForELBDNS(loadBalancerDNSName)
	if err != nil {
		logger.V(1).Info("Could not derive alias hosted zone from DNS name", "dnsName", loadBalancerDNSName, "reason", err.Error())
		return target
	}
	target.HostedZoneID = zoneID
	return target
}

// isACMCertificate reports whether id is an ACM certificate ARN. IAM server
// certificates and other ids go to the listener without a status check.
func isACMCertificate(id string) bool {
	parsed, err := arn.Parse(id)
	return err == nil && parsed.Service == "acm"
}

func upgradedProtocol(lbType, protocol string) string {
	switch {
	case lbType == "network" && protocol == "TCP":
		return "TLS"
	case lbType == "application" && protocol == "HTTP":
		return "HTTPS"
	default:
		return protocol
	}
}

func canonicalDNSName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

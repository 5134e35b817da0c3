package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/aws"
	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/listener"
	"github.com/michelfeldheim/astate/internal/mapping"
	"github.com/michelfeldheim/astate/internal/writer"
)

type fakeEnv struct {
	route53 *aws.MockRoute53Client
	elb     *aws.MockLoadBalancerClient
	applier *Applier
}

func newFakeEnv(dryRun bool) *fakeEnv {
	r53 := aws.NewMockRoute53Client()
	elb := aws.NewMockLoadBalancerClient()
	elb.LoadBalancers = []aws.LoadBalancer{
		{ARN: "arn:new-lb", DNSName: "new-lb", CanonicalHostedZoneID: "ZNEWLB", Type: "network"},
	}
	elb.Listeners["arn:new-lb"] = []aws.Listener{{ARN: "arn:new-lb/443", Port: 443, Protocol: "TCP"}}

	return &fakeEnv{
		route53: r53,
		elb:     elb,
		applier: &Applier{
			Records:      writer.New(r53, dryRun),
			Certificates: listener.New(elb, nil, dryRun),
		},
	}
}

// The scenario from the CSV through plan and apply: one existing alias for
// lb-internal.example.com. pointing at old-lb. is moved to new-lb.
func TestEndToEnd_UpdateAndAttachCertificate(t *testing.T) {
	ctx := context.Background()
	env := newFakeEnv(false)

	desired, err := mapping.Read(ctx, strings.NewReader("arec_name,dns_name,cert_id\nsvcA,lb-internal,cert-1\n"))
	require.NoError(t, err)

	zone := inventory.Zone{ID: "ZPUB1", Name: "example.com."}
	current := []inventory.AliasRecord{{Name: "lb-internal.example.com.", DNSName: "old-lb.", HostedZoneID: "ZOLD"}}

	actions := Plan(PlanInput{
		Desired:     desired.Records,
		ServiceName: "svcA",
		Zone:        zone,
		Current:     current,
		Target:      aws.AliasTarget{DNSName: "new-lb.", HostedZoneID: "ZNEWLB"},
	})
	require.Len(t, actions, 2)
	assert.Equal(t, KindUpdate, actions[0].Kind)
	assert.Equal(t, "lb-internal.example.com.", actions[0].FQDN)
	assert.Equal(t, "new-lb.", actions[0].Target.DNSName)
	assert.Equal(t, KindAttachCertificate, actions[1].Kind)
	assert.Equal(t, "cert-1", actions[1].CertificateARN)
	assert.Equal(t, "new-lb.", actions[1].LoadBalancerDNSName)

	outcomes, err := env.applier.Apply(ctx, zone, actions)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	require.Len(t, env.route53.Upserts, 1)
	upsert := env.route53.Upserts[0]
	assert.Equal(t, "ZPUB1", upsert.ZoneID)
	assert.Equal(t, "lb-internal.example.com.", upsert.Record.Name)
	assert.Equal(t, &aws.AliasTarget{DNSName: "new-lb.", HostedZoneID: "ZNEWLB"}, upsert.Record.AliasTarget)

	assert.Equal(t, []aws.ListenerModification{
		{ListenerARN: "arn:new-lb/443", CertificateARN: "cert-1", Protocol: "TLS"},
	}, env.elb.Modifications)
	assert.Empty(t, outcomes[1].Warning)
	assert.Equal(t, "arn:new-lb", outcomes[1].Listener.LoadBalancerARN)
}

func TestApply_DryRunMakesNoWrites(t *testing.T) {
	env := newFakeEnv(true)
	env.route53.UpsertErr = errors.New("write path must not be called")
	env.elb.ModifyErr = errors.New("write path must not be called")

	actions := []Action{
		{Kind: KindCreate, FQDN: "a.example.com.", Target: aws.AliasTarget{DNSName: "new-lb."}},
		{Kind: KindUpdate, FQDN: "b.example.com.", Target: aws.AliasTarget{DNSName: "new-lb."}},
		{Kind: KindAttachCertificate, FQDN: "b.example.com.", LoadBalancerDNSName: "new-lb.", CertificateARN: "cert-1"},
	}

	outcomes, err := env.applier.Apply(context.Background(), testZone, actions)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Record.Skipped)
	assert.True(t, outcomes[1].Record.Skipped)
	assert.True(t, outcomes[2].Listener.Skipped)
	assert.Empty(t, env.route53.Upserts)
	assert.Empty(t, env.elb.Modifications)
}

func TestApply_MissingLoadBalancerWarns(t *testing.T) {
	env := newFakeEnv(false)

	actions := []Action{
		{Kind: KindAttachCertificate, FQDN: "b.example.com.", LoadBalancerDNSName: "gone-lb.", CertificateARN: "cert-1"},
		{Kind: KindCreate, FQDN: "c.example.com.", Target: aws.AliasTarget{DNSName: "gone-lb."}},
	}

	outcomes, err := env.applier.Apply(context.Background(), testZone, actions)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Contains(t, outcomes[0].Warning, listener.ErrLoadBalancerNotFound.Error())
	assert.Nil(t, outcomes[0].Listener)

	// The run continued past the warning
	assert.Len(t, env.route53.Upserts, 1)
}

func TestApply_ProviderErrorAborts(t *testing.T) {
	env := newFakeEnv(false)
	boom := errors.New("Throttling")
	env.route53.UpsertErr = boom

	actions := []Action{
		{Kind: KindNoOp, FQDN: "a.example.com."},
		{Kind: KindCreate, FQDN: "b.example.com.", Target: aws.AliasTarget{DNSName: "new-lb."}},
		{Kind: KindCreate, FQDN: "c.example.com.", Target: aws.AliasTarget{DNSName: "new-lb."}},
	}

	outcomes, err := env.applier.Apply(context.Background(), testZone, actions)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "b.example.com.")

	// Only the NoOp before the failure completed
	require.Len(t, outcomes, 1)
	assert.Equal(t, KindNoOp, outcomes[0].Action.Kind)
}

func TestApply_ProviderErrorLogsCode(t *testing.T) {
	env := newFakeEnv(false)
	env.route53.UpsertErr = &aws.ProviderError{
		Service: "route53",
		Op:      "change resource record sets",
		Err:     &smithy.GenericAPIError{Code: "Throttling", Message: "Rate exceeded"},
	}

	var lines []string
	logger := funcr.New(func(prefix, args string) { lines = append(lines, args) }, funcr.Options{})
	ctx := log.IntoContext(context.Background(), logger)

	actions := []Action{{Kind: KindCreate, FQDN: "b.example.com.", Target: aws.AliasTarget{DNSName: "new-lb."}}}
	_, err := env.applier.Apply(ctx, testZone, actions)
	require.Error(t, err)
	assert.Equal(t, "Throttling", aws.ErrorCode(err))

	logged := strings.Join(lines, "\n")
	assert.Contains(t, logged, "AWS call failed, stopping")
	assert.Contains(t, logged, `"code"="Throttling"`)
}

// IAM server certificates cannot be described by ACM and go straight to the listener
func TestApply_IAMCertificateWithACMClient(t *testing.T) {
	env := newFakeEnv(false)
	env.applier.Certificates = listener.New(env.elb, aws.NewMockACMClient(), false)
	iamCert := "arn:aws:iam::123456789012:server-certificate/legacy"

	target := aws.AliasTarget{DNSName: "new-lb.", HostedZoneID: "ZNEWLB"}
	actions := []Action{
		{Kind: KindUpdate, FQDN: "lb-internal.example.com.", Target: target},
		{Kind: KindAttachCertificate, FQDN: "lb-internal.example.com.", Target: target,
			LoadBalancerDNSName: "new-lb.", CertificateARN: iamCert},
	}

	outcomes, err := env.applier.Apply(context.Background(), testZone, actions)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Empty(t, outcomes[1].Warning)

	assert.Len(t, env.route53.Upserts, 1)
	assert.Equal(t, []aws.ListenerModification{
		{ListenerARN: "arn:new-lb/443", CertificateARN: iamCert, Protocol: "TLS"},
	}, env.elb.Modifications)
}

func TestApply_ListenerProviderErrorAborts(t *testing.T) {
	env := newFakeEnv(false)
	boom := errors.New("AccessDenied")
	env.elb.ListErr = boom

	_, err := env.applier.Apply(context.Background(), testZone, []Action{
		{Kind: KindAttachCertificate, LoadBalancerDNSName: "new-lb.", CertificateARN: "cert-1"},
	})
	assert.ErrorIs(t, err, boom)
}

func TestApply_UnknownKind(t *testing.T) {
	env := newFakeEnv(false)

	_, err := env.applier.Apply(context.Background(), testZone, []Action{{Kind: "Delete"}})
	assert.Error(t, err)
}

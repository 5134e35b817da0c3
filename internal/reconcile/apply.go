package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/aws"
	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/listener"
	"github.com/michelfeldheim/astate/internal/writer"
)

const (
	// AWSCallTimeout is the default timeout for AWS API calls
	AWSCallTimeout = 30 * time.Second
)

// RecordWriter upserts alias records
type RecordWriter interface {
	Upsert(ctx context.Context, hostedZoneID, fqdn string, target aws.AliasTarget) (*writer.Result, error)
}

// CertificateFixer attaches certificates to load balancer listeners
type CertificateFixer interface {
	AttachCertificate(ctx context.Context, loadBalancerDNSName, certificateARN string) (*listener.Result, error)
}

// Outcome is the result of applying one Action
type Outcome struct {
	Action Action

	Record   *writer.Result
	Listener *listener.Result

	// Warning is set when the action was skipped without failing the run
	Warning string
}

// Applier executes planned actions
type Applier struct {
	Records      RecordWriter
	Certificates CertificateFixer
}

// Apply runs actions in order against zone. The first provider error stops
// the run; it is returned together with the outcomes completed before it.
// A missing load balancer or an unusable certificate only produces a warning.
func (a *Applier) Apply(ctx context.Context, zone inventory.Zone, actions []Action) ([]Outcome, error) {
	logger := log.FromContext(ctx).WithValues("zone", zone.Name)

	outcomes := make([]Outcome, 0, len(actions))
	for _, action := range actions {
		actionLog := logger.WithValues("index", action.Index, "action", action.Kind, "name", action.FQDN)
		outcome := Outcome{Action: action}

		switch action.Kind {
		case KindNoOp:
			actionLog.Info("Record unchanged", "dnsName", action.Target.DNSName)

		case KindCreate, KindUpdate:
			actionLog.Info("Upserting record", "dnsName", action.Target.DNSName, "aliasHostedZoneId", action.Target.HostedZoneID)
			awsCtx, cancel := context.WithTimeout(ctx, AWSCallTimeout)
			result, err := a.Records.Upsert(log.IntoContext(awsCtx, actionLog), zone.ID, action.FQDN, action.Target)
			cancel()
			if err != nil {
				logAbort(actionLog, err)
				return outcomes, fmt.Errorf("failed to %s record %s: %w", action.Kind, action.FQDN, err)
			}
			outcome.Record = result

		case KindAttachCertificate:
			actionLog.Info("Attaching certificate", "loadBalancer", action.LoadBalancerDNSName, "certificateArn", action.CertificateARN)
			awsCtx, cancel := context.WithTimeout(ctx, AWSCallTimeout)
			result, err := a.Certificates.AttachCertificate(log.IntoContext(awsCtx, actionLog), action.LoadBalancerDNSName, action.CertificateARN)
			cancel()
			if err != nil {
				if !isWarning(err) {
					logAbort(actionLog, err)
					return outcomes, fmt.Errorf("failed to attach certificate to %s: %w", action.LoadBalancerDNSName, err)
				}
				outcome.Warning = err.Error()
				actionLog.Info("Skipping certificate attachment", "reason", err.Error())
			}
			outcome.Listener = result

		default:
			return outcomes, fmt.Errorf("unknown action kind %q", action.Kind)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// logAbort records the AWS error code of the call that stopped the run
func logAbort(logger logr.Logger, err error) {
	if aws.IsProviderError(err) {
		logger.Error(err, "AWS call failed, stopping", "code", aws.ErrorCode(err))
	}
}

func isWarning(err error) bool {
	return errors.Is(err, listener.ErrLoadBalancerNotFound) ||
		errors.Is(err, listener.ErrCertificateNotIssued) ||
		errors.Is(err, listener.ErrNoCertificate)
}

// Package reconcile compares the desired alias state with the live Route53
// records and applies the difference.
package reconcile

import (
	"github.com/michelfeldheim/astate/internal/aws"
	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/mapping"
)

// Kind is the type of a planned action
type Kind string

const (
	KindCreate            Kind = "Create"
	KindUpdate            Kind = "Update"
	KindNoOp              Kind = "NoOp"
	KindAttachCertificate Kind = "AttachCertificate"
)

// Action is one step of a plan
type Action struct {
	Kind Kind

	// Index is the position of Record among the desired records
	Index  int
	Record mapping.Record

	FQDN   string
	Target aws.AliasTarget

	// Current is the live record matched by FQDN, nil for Create
	Current *inventory.AliasRecord

	// Set on AttachCertificate only
	LoadBalancerDNSName string
	CertificateARN      string
}

// PlanInput holds everything Plan looks at
type PlanInput struct {
	Desired     []mapping.Record
	ServiceName string
	Zone        inventory.Zone
	Current     []inventory.AliasRecord
	Target      aws.AliasTarget
}

// Plan returns the actions that bring the records of ServiceName in Zone to
// Target. Every desired record named ServiceName yields one Create, Update or
// NoOp, in input order; an Update is followed by an AttachCertificate for the
// target load balancer.
//
// When Target has no hosted zone ID, the matched record's alias zone is
// reused, or the first current record's for creates.
func Plan(in PlanInput) []Action {
	var actions []Action

	for i, record := range in.Desired {
		if record.Name != in.ServiceName {
			continue
		}

		action := Action{
			Index:  i,
			Record: record,
			FQDN:   record.DNSName + "." + in.Zone.Name,
			Target: in.Target,
		}

		current, found := lookup(in.Current, action.FQDN)
		if action.Target.HostedZoneID == "" {
			switch {
			case found:
				action.Target.HostedZoneID = current.HostedZoneID
			case len(in.Current) > 0:
				action.Target.HostedZoneID = in.Current[0].HostedZoneID
			}
		}

		switch {
		case !found:
			action.Kind = KindCreate
			actions = append(actions, action)
		case current.DNSName == in.Target.DNSName:
			action.Kind = KindNoOp
			action.Current = &current
			actions = append(actions, action)
		default:
			action.Kind = KindUpdate
			action.Current = &current
			attach := action
			attach.Kind = KindAttachCertificate
			attach.LoadBalancerDNSName = in.Target.DNSName
			attach.CertificateARN = record.CertificateID
			actions = append(actions, action, attach)
		}
	}

	return actions
}

// lookup returns a copy of the first record named fqdn
func lookup(records []inventory.AliasRecord, fqdn string) (inventory.AliasRecord, bool) {
	for _, r := range records {
		if r.Name == fqdn {
			return r, true
		}
	}
	return inventory.AliasRecord{}, false
}

// Summary counts actions by kind
func Summary(actions []Action) map[Kind]int {
	counts := make(map[Kind]int)
	for _, a := range actions {
		counts[a.Kind]++
	}
	return counts
}

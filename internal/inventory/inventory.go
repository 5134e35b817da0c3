// Package inventory reads the live state of Route53: hosted zones and the
// alias A records inside them.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/aws"
)

// ErrZoneNotFound is returned when no public hosted zone matches the request
var ErrZoneNotFound = errors.New("public hosted zone not found")

// Zone is a Route53 hosted zone
type Zone struct {
	ID          string
	Name        string
	Private     bool
	RecordCount int64
	Comment     string
}

// AliasRecord is an "A" record whose value is an alias target
type AliasRecord struct {
	Name                 string
	HostedZoneID         string
	DNSName              string
	EvaluateTargetHealth bool
}

// Inventory lists zones and alias records through a Route53Client
type Inventory struct {
	Route53 aws.Route53Client
}

// New creates an Inventory backed by the given client
func New(client aws.Route53Client) *Inventory {
	return &Inventory{Route53: client}
}

// ListHostedZones returns all hosted zones, public and private
func (i *Inventory) ListHostedZones(ctx context.Context) ([]Zone, error) {
	hostedZones, err := i.Route53.ListHostedZones(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([]Zone, 0, len(hostedZones))
	for _, hz := range hostedZones {
		zones = append(zones, Zone{
			ID:          hz.ID,
			Name:        hz.Name,
			Private:     hz.Private,
			RecordCount: hz.RecordCount,
			Comment:     hz.Comment,
		})
	}
	return zones, nil
}

// ListPublicHostedZones returns the hosted zones that are not private
func (i *Inventory) ListPublicHostedZones(ctx context.Context) ([]Zone, error) {
	zones, err := i.ListHostedZones(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]Zone, 0, len(zones))
	for _, z := range zones {
		if !z.Private {
			public = append(public, z)
		}
	}
	return public, nil
}

// FindPublicZone returns the public zone called name. An empty name selects
// the first public zone. The trailing dot is optional.
func (i *Inventory) FindPublicZone(ctx context.Context, name string) (Zone, error) {
	zones, err := i.ListPublicHostedZones(ctx)
	if err != nil {
		return Zone{}, err
	}
	if len(zones) == 0 {
		return Zone{}, ErrZoneNotFound
	}
	if name == "" {
		return zones[0], nil
	}

	want := strings.TrimSuffix(name, ".")
	for _, z := range zones {
		if strings.TrimSuffix(z.Name, ".") == want {
			return z, nil
		}
	}
	return Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
}

// ListAliasRecords returns the alias A records of zone. A records without an
// alias target are left out.
func (i *Inventory) ListAliasRecords(ctx context.Context, zone Zone) ([]AliasRecord, error) {
	logger := log.FromContext(ctx)

	records, err := i.Route53.ListRecordSets(ctx, zone.ID)
	if err != nil {
		return nil, err
	}

	var aliases []AliasRecord
	for _, r := range records {
		if r.Type != "A" {
			continue
		}
		if r.AliasTarget == nil {
			logger.V(1).Info("Ignoring A record without alias target", "name", r.Name, "zone", zone.Name)
			continue
		}
		aliases = append(aliases, AliasRecord{
			Name:                 r.Name,
			HostedZoneID:         r.AliasTarget.HostedZoneID,
			DNSName:              r.AliasTarget.DNSName,
			EvaluateTargetHealth: r.AliasTarget.EvaluateTargetHealth,
		})
	}
	return aliases, nil
}

// ListAllAliasRecords returns the alias A records of every public zone
func (i *Inventory) ListAllAliasRecords(ctx context.Context) ([]AliasRecord, error) {
	zones, err := i.ListPublicHostedZones(ctx)
	if err != nil {
		return nil, err
	}

	var all []AliasRecord
	for _, z := range zones {
		records, err := i.ListAliasRecords(ctx, z)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

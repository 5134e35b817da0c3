package aws

import (
	"context"
	"time"
)

// Route53Client defines the interface for Route53 operations
type Route53Client interface {
	// ListHostedZones returns every hosted zone in the account, following pagination
	ListHostedZones(ctx context.Context) ([]HostedZone, error)

	// ListRecordSets returns the record sets of a zone, starting at the zone origin
	ListRecordSets(ctx context.Context, zoneId string) ([]DNSRecord, error)

	// UpsertRecord creates or updates a DNS record with a single-change batch
	UpsertRecord(ctx context.Context, zoneId string, record DNSRecord, comment string) (*ChangeInfo, error)
}

// HostedZone represents a Route53 hosted zone
type HostedZone struct {
	ID          string // without the /hostedzone/ prefix
	Name        string // with trailing dot, as Route53 returns it
	Private     bool
	RecordCount int64
	Comment     string
}

// DNSRecord represents a Route53 DNS record
type DNSRecord struct {
	Name string
	Type string // A, AAAA, CNAME, etc.

	// For ALIAS records (pointing to a load balancer)
	AliasTarget *AliasTarget

	// For plain records
	Value string
	TTL   int64
}

// AliasTarget represents Route53 ALIAS record target
type AliasTarget struct {
	DNSName              string
	HostedZoneID         string // The canonical hosted zone ID of the load balancer
	EvaluateTargetHealth bool
}

// ChangeInfo is the provider's receipt for a submitted change batch
type ChangeInfo struct {
	ID          string
	Status      string // PENDING or INSYNC
	SubmittedAt time.Time
}

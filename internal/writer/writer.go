// Package writer submits alias record changes to Route53.
package writer

import (
	"context"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/aws"
)

// DefaultComment is attached to every change batch unless overridden
const DefaultComment = "Created by astate."

// Writer upserts alias A records
type Writer struct {
	Route53 aws.Route53Client
	DryRun  bool
	Comment string
}

// Result of a single upsert. Skipped is set when dry-run suppressed the call.
type Result struct {
	Skipped     bool
	ChangeID    string
	Status      string
	SubmittedAt time.Time
}

// New creates a Writer
func New(client aws.Route53Client, dryRun bool) *Writer {
	return &Writer{Route53: client, DryRun: dryRun, Comment: DefaultComment}
}

// Upsert creates or replaces the alias A record fqdn in hostedZoneID so that it
// points at target. Target health evaluation is always disabled.
func (w *Writer) Upsert(ctx context.Context, hostedZoneID, fqdn string, target aws.AliasTarget) (*Result, error) {
	logger := log.FromContext(ctx).WithValues("zoneId", hostedZoneID, "name", fqdn)

	record := aws.DNSRecord{
		Name: fqdn,
		Type: "A",
		AliasTarget: &aws.AliasTarget{
			DNSName:              target.DNSName,
			HostedZoneID:         target.HostedZoneID,
			EvaluateTargetHealth: false,
		},
	}

	logger.V(1).Info("Prepared change batch",
		"action", "UPSERT",
		"aliasDNSName", target.DNSName,
		"aliasHostedZoneId", target.HostedZoneID,
		"comment", w.Comment)

	if w.DryRun {
		logger.Info("Dry run, skipping record upsert")
		return &Result{Skipped: true}, nil
	}

	info, err := w.Route53.UpsertRecord(ctx, hostedZoneID, record, w.Comment)
	if err != nil {
		return nil, err
	}

	logger.Info("Submitted record upsert", "changeId", info.ID, "status", info.Status)
	return &Result{
		ChangeID:    info.ID,
		Status:      info.Status,
		SubmittedAt: info.SubmittedAt,
	}, nil
}

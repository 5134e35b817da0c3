package aws

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

const serviceRoute53 = "route53"

// SDKRoute53Client implements Route53Client using AWS SDK v2
type SDKRoute53Client struct {
	client *route53.Client
}

// NewSDKRoute53Client creates a new Route53 client using the provided AWS config
func NewSDKRoute53Client(cfg aws.Config) *SDKRoute53Client {
	return &SDKRoute53Client{
		client: route53.NewFromConfig(cfg),
	}
}

func (c *SDKRoute53Client) ListHostedZones(ctx context.Context) ([]HostedZone, error) {
	var zones []HostedZone

	paginator := route53.NewListHostedZonesPaginator(c.client, &route53.ListHostedZonesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newProviderError(serviceRoute53, "list hosted zones", err)
		}

		for _, hz := range page.HostedZones {
			zone := HostedZone{
				ID:          normalizeZoneId(aws.ToString(hz.Id)),
				Name:        aws.ToString(hz.Name),
				RecordCount: aws.ToInt64(hz.ResourceRecordSetCount),
			}
			if hz.Config != nil {
				zone.Private = hz.Config.PrivateZone
				zone.Comment = aws.ToString(hz.Config.Comment)
			}
			zones = append(zones, zone)
		}
	}

	return zones, nil
}

func (c *SDKRoute53Client) ListRecordSets(ctx context.Context, zoneId string) ([]DNSRecord, error) {
	var records []DNSRecord

	// Without StartRecordName the listing begins at the zone origin
	paginator := route53.NewListResourceRecordSetsPaginator(c.client, &route53.ListResourceRecordSetsInput{
		HostedZoneId: aws.String(normalizeZoneId(zoneId)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, newProviderError(serviceRoute53, "list resource record sets", err)
		}

		for _, rrs := range page.ResourceRecordSets {
			records = append(records, fromRecordSet(rrs))
		}
	}

	return records, nil
}

func (c *SDKRoute53Client) UpsertRecord(ctx context.Context, zoneId string, record DNSRecord, comment string) (*ChangeInfo, error) {
	changeBatch := &types.ChangeBatch{
		Changes: []types.Change{
			{
				Action:            types.ChangeActionUpsert,
				ResourceRecordSet: toRecordSet(record),
			},
		},
	}
	if comment != "" {
		changeBatch.Comment = aws.String(comment)
	}

	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(normalizeZoneId(zoneId)),
		ChangeBatch:  changeBatch,
	}

	result, err := c.client.ChangeResourceRecordSets(ctx, input)
	if err != nil {
		return nil, newProviderError(serviceRoute53, "change resource record sets", err)
	}

	info := &ChangeInfo{}
	if result.ChangeInfo != nil {
		info.ID = aws.ToString(result.ChangeInfo.Id)
		info.Status = string(result.ChangeInfo.Status)
		info.SubmittedAt = aws.ToTime(result.ChangeInfo.SubmittedAt)
	}
	return info, nil
}

func toRecordSet(record DNSRecord) *types.ResourceRecordSet {
	rrs := &types.ResourceRecordSet{
		Name: aws.String(record.Name),
		Type: types.RRType(record.Type),
	}

	// For ALIAS records, TTL and resource records must not be set
	if record.AliasTarget != nil {
		rrs.AliasTarget = &types.AliasTarget{
			DNSName:              aws.String(record.AliasTarget.DNSName),
			HostedZoneId:         aws.String(record.AliasTarget.HostedZoneID),
			EvaluateTargetHealth: record.AliasTarget.EvaluateTargetHealth,
		}
		return rrs
	}

	rrs.TTL = aws.Int64(record.TTL)
	rrs.ResourceRecords = []types.ResourceRecord{
		{Value: aws.String(record.Value)},
	}
	return rrs
}

func fromRecordSet(rrs types.ResourceRecordSet) DNSRecord {
	record := DNSRecord{
		Name: aws.ToString(rrs.Name),
		Type: string(rrs.Type),
		TTL:  aws.ToInt64(rrs.TTL),
	}

	if rrs.AliasTarget != nil {
		record.AliasTarget = &AliasTarget{
			DNSName:              aws.ToString(rrs.AliasTarget.DNSName),
			HostedZoneID:         aws.ToString(rrs.AliasTarget.HostedZoneId),
			EvaluateTargetHealth: rrs.AliasTarget.EvaluateTargetHealth,
		}
	} else if len(rrs.ResourceRecords) > 0 {
		record.Value = aws.ToString(rrs.ResourceRecords[0].Value)
	}

	return record
}

// normalizeZoneId ensures the zone ID has the correct format
func normalizeZoneId(zoneId string) string {
	// Remove /hostedzone/ prefix if present
	return strings.TrimPrefix(zoneId, "/hostedzone/")
}

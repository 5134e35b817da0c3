package aws

import (
	"context"
	"fmt"
	"time"
)

// MockRoute53Client is a mock implementation for testing
type MockRoute53Client struct {
	Zones   []HostedZone
	Records map[string][]DNSRecord // key: zoneId

	// Upserts records every change batch submitted, in order
	Upserts []MockUpsert

	// Errors injected per operation
	ListZonesErr   error
	ListRecordsErr error
	UpsertErr      error
}

// MockUpsert is a recorded UpsertRecord call
type MockUpsert struct {
	ZoneID  string
	Record  DNSRecord
	Comment string
}

func NewMockRoute53Client() *MockRoute53Client {
	return &MockRoute53Client{
		Records: make(map[string][]DNSRecord),
	}
}

func (m *MockRoute53Client) ListHostedZones(ctx context.Context) ([]HostedZone, error) {
	if m.ListZonesErr != nil {
		return nil, m.ListZonesErr
	}
	return append([]HostedZone(nil), m.Zones...), nil
}

func (m *MockRoute53Client) ListRecordSets(ctx context.Context, zoneId string) ([]DNSRecord, error) {
	if m.ListRecordsErr != nil {
		return nil, m.ListRecordsErr
	}
	return append([]DNSRecord(nil), m.Records[normalizeZoneId(zoneId)]...), nil
}

func (m *MockRoute53Client) UpsertRecord(ctx context.Context, zoneId string, record DNSRecord, comment string) (*ChangeInfo, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	zoneId = normalizeZoneId(zoneId)
	m.Upserts = append(m.Upserts, MockUpsert{ZoneID: zoneId, Record: record, Comment: comment})

	records := m.Records[zoneId]
	replaced := false
	for i, r := range records {
		if r.Name == record.Name && r.Type == record.Type {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	m.Records[zoneId] = records

	return &ChangeInfo{
		ID:          fmt.Sprintf("/change/C%04d", len(m.Upserts)),
		Status:      "PENDING",
		SubmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

// MockLoadBalancerClient is a mock implementation for testing
type MockLoadBalancerClient struct {
	LoadBalancers []LoadBalancer
	Listeners     map[string][]Listener // key: load balancer ARN

	// Modifications records every ModifyListener call, in order
	Modifications []ListenerModification

	ListErr   error
	ModifyErr error
}

func NewMockLoadBalancerClient() *MockLoadBalancerClient {
	return &MockLoadBalancerClient{
		Listeners: make(map[string][]Listener),
	}
}

func (m *MockLoadBalancerClient) ListLoadBalancers(ctx context.Context) ([]LoadBalancer, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]LoadBalancer(nil), m.LoadBalancers...), nil
}

func (m *MockLoadBalancerClient) ListListeners(ctx context.Context, loadBalancerArn string) ([]Listener, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]Listener(nil), m.Listeners[loadBalancerArn]...), nil
}

func (m *MockLoadBalancerClient) ModifyListener(ctx context.Context, mod ListenerModification) error {
	if m.ModifyErr != nil {
		return m.ModifyErr
	}
	m.Modifications = append(m.Modifications, mod)

	for arn, listeners := range m.Listeners {
		for i, l := range listeners {
			if l.ARN != mod.ListenerARN {
				continue
			}
			l.Certificates = []string{mod.CertificateARN}
			if mod.Protocol != "" {
				l.Protocol = mod.Protocol
			}
			m.Listeners[arn][i] = l
		}
	}
	return nil
}

// MockACMClient is a mock implementation for testing
type MockACMClient struct {
	Certificates map[string]*CertificateDetails
}

func NewMockACMClient() *MockACMClient {
	return &MockACMClient{
		Certificates: make(map[string]*CertificateDetails),
	}
}

// AddCertificate registers a certificate with the given status and returns its ARN
func (m *MockACMClient) AddCertificate(domain, status string) string {
	arn := fmt.Sprintf("arn:aws:acm:us-east-1:123456789012:certificate/%s", domain)
	m.Certificates[arn] = &CertificateDetails{
		Arn:    arn,
		Domain: domain,
		Status: status,
	}
	return arn
}

func (m *MockACMClient) DescribeCertificate(ctx context.Context, certArn string) (*CertificateDetails, error) {
	cert, ok := m.Certificates[certArn]
	if !ok {
		return nil, newProviderError(serviceACM, "describe certificate", fmt.Errorf("certificate not found: %s", certArn))
	}
	return cert, nil
}

package aws

import (
	"context"
	"errors"
	"testing"
)

func TestMockACMClient_DescribeCertificate(t *testing.T) {
	client := NewMockACMClient()
	ctx := context.Background()

	tests := []struct {
		name       string
		domain     string
		status     string
		wantStatus string
	}{
		{
			name:       "issued certificate",
			domain:     "app.example.com",
			status:     CertificateStatusIssued,
			wantStatus: "ISSUED",
		},
		{
			name:       "pending certificate",
			domain:     "pending.example.com",
			status:     "PENDING_VALIDATION",
			wantStatus: "PENDING_VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arn := client.AddCertificate(tt.domain, tt.status)

			cert, err := client.DescribeCertificate(ctx, arn)
			if err != nil {
				t.Fatalf("DescribeCertificate() error = %v", err)
			}
			if cert.Domain != tt.domain {
				t.Errorf("cert domain = %v, want %v", cert.Domain, tt.domain)
			}
			if cert.Status != tt.wantStatus {
				t.Errorf("cert status = %v, want %v", cert.Status, tt.wantStatus)
			}
		})
	}
}

func TestMockACMClient_UnknownCertificate(t *testing.T) {
	client := NewMockACMClient()

	_, err := client.DescribeCertificate(context.Background(), "arn:aws:acm:us-east-1:123456789012:certificate/missing")
	if err == nil {
		t.Fatal("expected error for unknown certificate")
	}
	if !IsProviderError(err) {
		t.Errorf("expected provider error, got %T", err)
	}
}

func TestMockRoute53Client_ListHostedZones(t *testing.T) {
	client := NewMockRoute53Client()
	client.Zones = []HostedZone{
		{ID: "Z1", Name: "example.com."},
		{ID: "Z2", Name: "internal.example.com.", Private: true},
	}

	zones, err := client.ListHostedZones(context.Background())
	if err != nil {
		t.Fatalf("ListHostedZones() error = %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}

	// The returned slice must be a copy
	zones[0].Name = "mutated."
	if client.Zones[0].Name != "example.com." {
		t.Error("ListHostedZones() returned the mock's backing slice")
	}
}

func TestMockRoute53Client_UpsertAliasRecord(t *testing.T) {
	client := NewMockRoute53Client()
	ctx := context.Background()

	record := DNSRecord{
		Name: "app.example.com.",
		Type: "A",
		AliasTarget: &AliasTarget{
			DNSName:      "k8s-gw.us-east-1.elb.amazonaws.com.",
			HostedZoneID: "Z35SXDOTRQ7X7K",
		},
	}

	info, err := client.UpsertRecord(ctx, "/hostedzone/Z789012", record, "test")
	if err != nil {
		t.Fatalf("UpsertRecord() error = %v", err)
	}
	if info.ID == "" || info.Status != "PENDING" {
		t.Errorf("unexpected change info %+v", info)
	}

	records, err := client.ListRecordSets(ctx, "Z789012")
	if err != nil {
		t.Fatalf("ListRecordSets() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].AliasTarget == nil {
		t.Fatal("alias target is nil")
	}
	if records[0].AliasTarget.DNSName != record.AliasTarget.DNSName {
		t.Errorf("DNS name = %v, want %v", records[0].AliasTarget.DNSName, record.AliasTarget.DNSName)
	}
	if client.Upserts[0].ZoneID != "Z789012" {
		t.Errorf("zone id = %v, want normalized Z789012", client.Upserts[0].ZoneID)
	}
}

func TestMockRoute53Client_UpsertReplacesRecord(t *testing.T) {
	client := NewMockRoute53Client()
	ctx := context.Background()

	original := DNSRecord{
		Name:        "app.example.com.",
		Type:        "A",
		AliasTarget: &AliasTarget{DNSName: "old-lb."},
	}
	updated := DNSRecord{
		Name:        "app.example.com.",
		Type:        "A",
		AliasTarget: &AliasTarget{DNSName: "new-lb."},
	}

	if _, err := client.UpsertRecord(ctx, "Z123", original, ""); err != nil {
		t.Fatalf("UpsertRecord() error = %v", err)
	}
	if _, err := client.UpsertRecord(ctx, "Z123", updated, ""); err != nil {
		t.Fatalf("UpsertRecord() error = %v", err)
	}

	records, _ := client.ListRecordSets(ctx, "Z123")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].AliasTarget.DNSName != "new-lb." {
		t.Errorf("DNS name = %v, want new-lb.", records[0].AliasTarget.DNSName)
	}
	if len(client.Upserts) != 2 {
		t.Errorf("recorded %d upserts, want 2", len(client.Upserts))
	}
}

func TestMockRoute53Client_InjectedError(t *testing.T) {
	client := NewMockRoute53Client()
	boom := errors.New("boom")
	client.UpsertErr = boom

	_, err := client.UpsertRecord(context.Background(), "Z123", DNSRecord{Name: "a.", Type: "A"}, "")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if len(client.Upserts) != 0 {
		t.Error("failed upsert must not be recorded")
	}
}

func TestMockLoadBalancerClient_ModifyListener(t *testing.T) {
	client := NewMockLoadBalancerClient()
	ctx := context.Background()

	client.LoadBalancers = []LoadBalancer{{ARN: "lb-arn", DNSName: "lb.us-east-1.elb.amazonaws.com"}}
	client.Listeners["lb-arn"] = []Listener{
		{ARN: "listener-443", Port: 443, Protocol: "TCP"},
		{ARN: "listener-80", Port: 80, Protocol: "TCP"},
	}

	err := client.ModifyListener(ctx, ListenerModification{
		ListenerARN:    "listener-443",
		CertificateARN: "cert-1",
		Protocol:       "TLS",
	})
	if err != nil {
		t.Fatalf("ModifyListener() error = %v", err)
	}

	listeners, _ := client.ListListeners(ctx, "lb-arn")
	if got := listeners[0]; got.Protocol != "TLS" || len(got.Certificates) != 1 || got.Certificates[0] != "cert-1" {
		t.Errorf("listener-443 = %+v", got)
	}
	if got := listeners[1]; got.Protocol != "TCP" || len(got.Certificates) != 0 {
		t.Errorf("listener-80 should be untouched, got %+v", got)
	}
}

package aws

import (
	"context"
)

// ACMClient defines the interface for ACM operations
type ACMClient interface {
	// DescribeCertificate gets the current status and details of a certificate
	DescribeCertificate(ctx context.Context, certArn string) (*CertificateDetails, error)
}

// CertificateDetails represents ACM certificate information
type CertificateDetails struct {
	Arn     string
	Domain  string
	Status  string // PENDING_VALIDATION, ISSUED, FAILED, etc.
	InUseBy []string
}

// CertificateStatusIssued is the only status a listener will accept
const CertificateStatusIssued = "ISSUED"

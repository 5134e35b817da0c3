package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
)

const serviceACM = "acm"

// SDKACMClient implements ACMClient using AWS SDK v2
type SDKACMClient struct {
	client *acm.Client
}

// NewSDKACMClient creates a new ACM client using the provided AWS config
func NewSDKACMClient(cfg aws.Config) *SDKACMClient {
	return &SDKACMClient{
		client: acm.NewFromConfig(cfg),
	}
}

func (c *SDKACMClient) DescribeCertificate(ctx context.Context, arn string) (*CertificateDetails, error) {
	input := &acm.DescribeCertificateInput{
		CertificateArn: aws.String(arn),
	}

	result, err := c.client.DescribeCertificate(ctx, input)
	if err != nil {
		return nil, newProviderError(serviceACM, "describe certificate", err)
	}

	details := &CertificateDetails{Arn: arn}
	if result.Certificate != nil {
		details.Domain = aws.ToString(result.Certificate.DomainName)
		details.Status = string(result.Certificate.Status)
		details.InUseBy = result.Certificate.InUseBy
	}
	return details, nil
}

package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ProviderError wraps any failure returned by an AWS API call
type ProviderError struct {
	Service string
	Op      string
	Err     error
}

func newProviderError(service, op string, err error) *ProviderError {
	return &ProviderError{Service: service, Op: op, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: failed to %s: %v", e.Service, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Code returns the AWS error code (e.g. NoSuchHostedZone), or "" if the
// failure did not come from the API itself
func (e *ProviderError) Code() string {
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsProviderError reports whether err originated from an AWS API call
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// ErrorCode returns the AWS error code of the ProviderError inside err, or ""
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code()
	}
	return ""
}

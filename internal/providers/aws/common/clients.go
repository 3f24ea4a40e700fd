package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient is the subset of STS operations used by the loader. Using a
// narrow interface instead of the full SDK client makes mocking in unit
// tests trivial: create a struct that satisfies the interface and return
// canned data.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// STSClientFactory creates an STSClient from an aws.Config.
// Swap this in tests to inject a mock client.
type STSClientFactory func(cfg aws.Config) STSClient

// NewSTSClient is the production STSClientFactory.
func NewSTSClient(cfg aws.Config) STSClient {
	return sts.NewFromConfig(cfg)
}

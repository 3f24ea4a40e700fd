package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration.
// It is the unit passed between the provider layer and the IAM collector.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	AccountID string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config
}

// AWSClientProvider loads AWS configurations and enumerates local profiles.
// It is the sole entry point for AWS credential management across the
// provider layer.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty string to load the default profile.
	LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error)

	// ListProfiles returns every profile name found in ~/.aws/credentials
	// and ~/.aws/config, deduplicated, in file order.
	ListProfiles() ([]string, error)
}

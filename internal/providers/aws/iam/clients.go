package awsiam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
)

// iamAPIClient is the narrow IAM interface used by the snapshot collector.
// It embeds the SDK paginator interfaces for the two top-level listings so
// the generated paginators can be used directly; everything else is a plain
// per-entity call.
type iamAPIClient interface {
	iamsvc.ListUsersAPIClient
	iamsvc.ListGroupsAPIClient
	ListMFADevices(ctx context.Context, params *iamsvc.ListMFADevicesInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListMFADevicesOutput, error)
	ListAccessKeys(ctx context.Context, params *iamsvc.ListAccessKeysInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListAccessKeysOutput, error)
	ListGroupsForUser(ctx context.Context, params *iamsvc.ListGroupsForUserInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListGroupsForUserOutput, error)
	ListAttachedUserPolicies(ctx context.Context, params *iamsvc.ListAttachedUserPoliciesInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListAttachedUserPoliciesOutput, error)
	ListUserPolicies(ctx context.Context, params *iamsvc.ListUserPoliciesInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListUserPoliciesOutput, error)
	GetUserPolicy(ctx context.Context, params *iamsvc.GetUserPolicyInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetUserPolicyOutput, error)
	ListAttachedGroupPolicies(ctx context.Context, params *iamsvc.ListAttachedGroupPoliciesInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListAttachedGroupPoliciesOutput, error)
	ListGroupPolicies(ctx context.Context, params *iamsvc.ListGroupPoliciesInput, optFns ...func(*iamsvc.Options)) (*iamsvc.ListGroupPoliciesOutput, error)
	GetGroupPolicy(ctx context.Context, params *iamsvc.GetGroupPolicyInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetGroupPolicyOutput, error)
	GetPolicy(ctx context.Context, params *iamsvc.GetPolicyInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetPolicyOutput, error)
	GetPolicyVersion(ctx context.Context, params *iamsvc.GetPolicyVersionInput, optFns ...func(*iamsvc.Options)) (*iamsvc.GetPolicyVersionOutput, error)
}

// iamClientFactory creates an iamAPIClient from an AWS config.
// Injection point: tests replace this with a function returning a fake client.
type iamClientFactory func(cfg aws.Config) iamAPIClient

// newDefaultIAMClient creates the production AWS SDK client from the given config.
func newDefaultIAMClient(cfg aws.Config) iamAPIClient {
	return iamsvc.NewFromConfig(cfg)
}

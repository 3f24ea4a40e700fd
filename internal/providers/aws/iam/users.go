package awsiam

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// collectUsers returns every IAM user in the account with all attributes the
// rules evaluate: MFA status, access keys, attached and inline policies, and
// group memberships. The ListUsers paginator handles accounts with many users.
//
// A failing ListUsers call is fatal; per-user attribute lookups degrade to
// conservative defaults (no MFA, no keys, no policies) instead of aborting.
func collectUsers(ctx context.Context, client iamAPIClient, cache *policyCache) (map[string]models.IAMUser, error) {
	paginator := iamsvc.NewListUsersPaginator(client, &iamsvc.ListUsersInput{})
	users := make(map[string]models.IAMUser)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list IAM users: %w", err)
		}
		for _, u := range page.Users {
			userName := aws.ToString(u.UserName)
			user := models.IAMUser{
				UserName:        userName,
				MFAEnabled:      userHasMFA(ctx, client, userName),
				AccessKeys:      userAccessKeys(ctx, client, userName),
				ManagedPolicies: userManagedPolicies(ctx, client, cache, userName),
				InlinePolicies:  userInlinePolicies(ctx, client, userName),
				Groups:          userGroups(ctx, client, userName),
			}
			if u.CreateDate != nil {
				user.CreateDate = *u.CreateDate
			}
			users[userName] = user
		}
	}
	return users, nil
}

// userHasMFA returns true when the specified IAM user has at least one MFA
// device registered. Errors are treated as "no MFA" (conservative).
func userHasMFA(ctx context.Context, client iamAPIClient, userName string) bool {
	out, err := client.ListMFADevices(ctx, &iamsvc.ListMFADevicesInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return false
	}
	return len(out.MFADevices) > 0
}

// userAccessKeys returns the user's access key metadata in API order.
// Errors yield an empty list (non-fatal).
func userAccessKeys(ctx context.Context, client iamAPIClient, userName string) []models.AccessKey {
	out, err := client.ListAccessKeys(ctx, &iamsvc.ListAccessKeysInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil
	}
	keys := make([]models.AccessKey, 0, len(out.AccessKeyMetadata))
	for _, k := range out.AccessKeyMetadata {
		key := models.AccessKey{
			KeyID:  aws.ToString(k.AccessKeyId),
			Status: models.AccessKeyStatus(k.Status),
		}
		if k.CreateDate != nil {
			key.CreateDate = *k.CreateDate
		}
		keys = append(keys, key)
	}
	return keys
}

// userManagedPolicies returns the documents of the user's directly attached
// managed policies. Errors yield an empty list (non-fatal).
func userManagedPolicies(ctx context.Context, client iamAPIClient, cache *policyCache, userName string) []models.PolicyDocument {
	out, err := client.ListAttachedUserPolicies(ctx, &iamsvc.ListAttachedUserPoliciesInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil
	}
	docs := make([]models.PolicyDocument, 0, len(out.AttachedPolicies))
	for _, p := range out.AttachedPolicies {
		docs = append(docs, cache.managedPolicy(ctx, aws.ToString(p.PolicyName), aws.ToString(p.PolicyArn)))
	}
	return docs
}

// userInlinePolicies returns the user's inline policy documents.
// Errors yield an empty list (non-fatal).
func userInlinePolicies(ctx context.Context, client iamAPIClient, userName string) []models.PolicyDocument {
	out, err := client.ListUserPolicies(ctx, &iamsvc.ListUserPoliciesInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil
	}
	var docs []models.PolicyDocument
	for _, name := range out.PolicyNames {
		doc := models.PolicyDocument{Name: name}
		pol, err := client.GetUserPolicy(ctx, &iamsvc.GetUserPolicyInput{
			UserName:   aws.String(userName),
			PolicyName: aws.String(name),
		})
		if err == nil && pol.PolicyDocument != nil {
			if statements, perr := parsePolicyStatements(aws.ToString(pol.PolicyDocument)); perr == nil {
				doc.Statements = statements
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// userGroups returns the names of the groups the user belongs to.
// Errors yield an empty list (non-fatal).
func userGroups(ctx context.Context, client iamAPIClient, userName string) []string {
	out, err := client.ListGroupsForUser(ctx, &iamsvc.ListGroupsForUserInput{
		UserName: aws.String(userName),
	})
	if err != nil {
		return nil
	}
	groups := make([]string, 0, len(out.Groups))
	for _, g := range out.Groups {
		groups = append(groups, aws.ToString(g.GroupName))
	}
	return groups
}

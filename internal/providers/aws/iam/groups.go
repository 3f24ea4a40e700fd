package awsiam

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// collectGroups returns every IAM group in the account with its attached
// managed and inline policy documents. Member back-references are filled in
// later from the collected users, not queried per group.
//
// A failing ListGroups call is fatal; per-group policy lookups degrade to
// empty lists (non-fatal).
func collectGroups(ctx context.Context, client iamAPIClient, cache *policyCache) (map[string]models.Group, error) {
	paginator := iamsvc.NewListGroupsPaginator(client, &iamsvc.ListGroupsInput{})
	groups := make(map[string]models.Group)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list IAM groups: %w", err)
		}
		for _, g := range page.Groups {
			groupName := aws.ToString(g.GroupName)
			groups[groupName] = models.Group{
				GroupName:       groupName,
				ManagedPolicies: groupManagedPolicies(ctx, client, cache, groupName),
				InlinePolicies:  groupInlinePolicies(ctx, client, groupName),
			}
		}
	}
	return groups, nil
}

// groupManagedPolicies returns the documents of the group's attached managed
// policies. Errors yield an empty list (non-fatal).
func groupManagedPolicies(ctx context.Context, client iamAPIClient, cache *policyCache, groupName string) []models.PolicyDocument {
	out, err := client.ListAttachedGroupPolicies(ctx, &iamsvc.ListAttachedGroupPoliciesInput{
		GroupName: aws.String(groupName),
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

// groupInlinePolicies returns the group's inline policy documents.
// Errors yield an empty list (non-fatal).
func groupInlinePolicies(ctx context.Context, client iamAPIClient, groupName string) []models.PolicyDocument {
	out, err := client.ListGroupPolicies(ctx, &iamsvc.ListGroupPoliciesInput{
		GroupName: aws.String(groupName),
	})
	if err != nil {
		return nil
	}
	var docs []models.PolicyDocument
	for _, name := range out.PolicyNames {
		doc := models.PolicyDocument{Name: name}
		pol, err := client.GetGroupPolicy(ctx, &iamsvc.GetGroupPolicyInput{
			GroupName:  aws.String(groupName),
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

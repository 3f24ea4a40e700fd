package awsiam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// policyCache fetches managed policy documents and memoises them by ARN.
// Managed policies are routinely attached to many principals; without the
// cache an account with one shared policy across hundreds of users would
// cost two API calls per attachment.
type policyCache struct {
	client iamAPIClient
	docs   map[string]models.PolicyDocument
}

func newPolicyCache(client iamAPIClient) *policyCache {
	return &policyCache{client: client, docs: make(map[string]models.PolicyDocument)}
}

// managedPolicy returns the policy document for arn, fetching the default
// version on first use. A fetch failure degrades to a name-only document so
// name-based rules still see the attachment even when the document is
// unreadable (e.g. missing iam:GetPolicyVersion permission).
func (c *policyCache) managedPolicy(ctx context.Context, name, arn string) models.PolicyDocument {
	if doc, ok := c.docs[arn]; ok {
		return doc
	}

	doc := models.PolicyDocument{Name: name, Arn: arn}
	if statements, err := c.fetchStatements(ctx, arn); err == nil {
		doc.Statements = statements
	}
	c.docs[arn] = doc
	return doc
}

// fetchStatements resolves the default version of the managed policy at arn
// and parses its statements.
func (c *policyCache) fetchStatements(ctx context.Context, arn string) ([]models.Statement, error) {
	pol, err := c.client.GetPolicy(ctx, &iamsvc.GetPolicyInput{PolicyArn: aws.String(arn)})
	if err != nil {
		return nil, fmt.Errorf("get policy %s: %w", arn, err)
	}
	if pol.Policy == nil || pol.Policy.DefaultVersionId == nil {
		return nil, fmt.Errorf("policy %s has no default version", arn)
	}

	ver, err := c.client.GetPolicyVersion(ctx, &iamsvc.GetPolicyVersionInput{
		PolicyArn: aws.String(arn),
		VersionId: pol.Policy.DefaultVersionId,
	})
	if err != nil {
		return nil, fmt.Errorf("get policy version %s: %w", arn, err)
	}
	if ver.PolicyVersion == nil || ver.PolicyVersion.Document == nil {
		return nil, fmt.Errorf("policy %s version document is empty", arn)
	}

	return parsePolicyStatements(aws.ToString(ver.PolicyVersion.Document))
}

// statementList accepts both JSON shapes AWS uses for the Statement field:
// a single statement object or an array of them.
type statementList []models.Statement

func (l *statementList) UnmarshalJSON(data []byte) error {
	var single models.Statement
	if err := json.Unmarshal(data, &single); err == nil {
		*l = statementList{single}
		return nil
	}
	var many []models.Statement
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = statementList(many)
	return nil
}

// parsePolicyStatements decodes a raw IAM policy document. The IAM API
// returns documents URL-encoded; decode first, then parse the JSON.
func parsePolicyStatements(raw string) ([]models.Statement, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		// Inline documents from some paths arrive already decoded.
		decoded = raw
	}

	var doc struct {
		Statement statementList `json:"Statement"`
	}
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return nil, fmt.Errorf("parse policy document: %w", err)
	}
	return []models.Statement(doc.Statement), nil
}

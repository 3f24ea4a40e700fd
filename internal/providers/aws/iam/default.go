package awsiam

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/providers/aws/common"
)

// DefaultSnapshotCollector is the production engine.SnapshotCollector.
// It loads the requested AWS profile, walks the account's IAM resources,
// and assembles a validated models.Snapshot.
type DefaultSnapshotCollector struct {
	provider common.AWSClientProvider
	factory  iamClientFactory
}

// NewDefaultSnapshotCollector returns a collector wired to production AWS
// SDK clients.
func NewDefaultSnapshotCollector(provider common.AWSClientProvider) *DefaultSnapshotCollector {
	return &DefaultSnapshotCollector{provider: provider, factory: newDefaultIAMClient}
}

// NewDefaultSnapshotCollectorWithFactory returns a collector that uses the
// supplied factory, allowing tests to inject a fake IAM client.
func NewDefaultSnapshotCollectorWithFactory(
	provider common.AWSClientProvider,
	f iamClientFactory,
) *DefaultSnapshotCollector {
	return &DefaultSnapshotCollector{provider: provider, factory: f}
}

// Collect gathers the full IAM state for the given profile. Groups are
// collected before users so group memberships recorded on users always
// resolve; member back-references are then filled in from the user side.
func (c *DefaultSnapshotCollector) Collect(ctx context.Context, profile string) (*models.Snapshot, error) {
	pc, err := c.provider.LoadProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	client := c.factory(pc.Config)
	cache := newPolicyCache(client)

	groups, err := collectGroups(ctx, client, cache)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", pc.ProfileName, err)
	}
	users, err := collectUsers(ctx, client, cache)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", pc.ProfileName, err)
	}

	fillGroupMembers(users, groups)

	return models.NewSnapshot(pc.AccountID, pc.ProfileName, time.Now().UTC(), users, groups)
}

// fillGroupMembers populates each group's Members back-reference from the
// membership lists recorded on the users. Members are sorted so the
// Snapshot's JSON form is stable.
func fillGroupMembers(users map[string]models.IAMUser, groups map[string]models.Group) {
	for userName, u := range users {
		for _, gname := range u.Groups {
			g, ok := groups[gname]
			if !ok {
				continue // NewSnapshot rejects the dangling reference later
			}
			g.Members = append(g.Members, userName)
			groups[gname] = g
		}
	}
	for gname, g := range groups {
		sort.Strings(g.Members)
		groups[gname] = g
	}
}

package rules

import (
	"testing"
	"time"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mustSnapshot builds a valid Snapshot for rule tests or fails the test.
func mustSnapshot(t *testing.T, users map[string]models.IAMUser, groups map[string]models.Group) *models.Snapshot {
	t.Helper()
	snap, err := models.NewSnapshot("123456789012", "test", testNow, users, groups)
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

// testCtx wraps a snapshot in a RuleContext with the fixed reference time
// and no policy overrides.
func testCtx(snap *models.Snapshot) RuleContext {
	return RuleContext{Snapshot: snap, Now: testNow}
}

// keyAgedDays returns an active access key created the given number of days
// before testNow.
func keyAgedDays(id string, days int) models.AccessKey {
	return models.AccessKey{
		KeyID:      id,
		Status:     models.AccessKeyActive,
		CreateDate: testNow.AddDate(0, 0, -days),
	}
}

// wildcardPolicy returns a policy document granting Allow */* under the
// given name.
func wildcardPolicy(name string) models.PolicyDocument {
	return models.PolicyDocument{
		Name: name,
		Statements: []models.Statement{
			{Effect: "Allow", Action: models.StringList{"*"}, Resource: models.StringList{"*"}},
		},
	}
}

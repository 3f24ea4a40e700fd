package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AccessKeyStatus is the lifecycle state of an IAM access key as reported
// by the provider ("Active" or "Inactive").
type AccessKeyStatus string

const (
	AccessKeyActive   AccessKeyStatus = "Active"
	AccessKeyInactive AccessKeyStatus = "Inactive"
)

// AccessKey is one programmatic credential belonging to an IAM user.
// Age is never stored; rules derive it from CreateDate at evaluation time so
// it cannot go stale between collection and evaluation.
type AccessKey struct {
	KeyID      string          `json:"key_id"`
	CreateDate time.Time       `json:"create_date"`
	Status     AccessKeyStatus `json:"status"`
	// LastUsed is the last-used timestamp when the provider reports one.
	// Zero value means never used or not reported.
	LastUsed time.Time `json:"last_used,omitempty"`
}

// Active reports whether the key is usable for API calls.
func (k AccessKey) Active() bool { return k.Status == AccessKeyActive }

// AgeDays returns the whole number of days between the key's creation and now.
func (k AccessKey) AgeDays(now time.Time) int {
	return int(now.Sub(k.CreateDate).Hours() / 24)
}

// Statement is a single permission statement inside a policy document.
// Action and Resource accept both the string and list JSON shapes that AWS
// policy documents use interchangeably.
type Statement struct {
	Effect   string     `json:"Effect"`
	Action   StringList `json:"Action"`
	Resource StringList `json:"Resource"`
	// Condition is kept opaque; rules never inspect it.
	Condition map[string]any `json:"Condition,omitempty"`
}

// PolicyDocument is one managed or inline policy attached to a user or group.
// The statement structure is opaque to the engine except for the subset the
// rules inspect (Allow effect, wildcard actions and resources).
type PolicyDocument struct {
	Name       string      `json:"name"`
	Arn        string      `json:"arn,omitempty"`
	Statements []Statement `json:"statements,omitempty"`
}

// HasWildcardAdmin reports whether any statement allows every listed admin
// action on every resource. adminActions is the configured wildcard action
// set (default {"*"}).
func (p PolicyDocument) HasWildcardAdmin(adminActions []string) bool {
	for _, st := range p.Statements {
		if !strings.EqualFold(st.Effect, "Allow") {
			continue
		}
		if !st.Resource.Contains("*") {
			continue
		}
		for _, admin := range adminActions {
			if st.Action.Contains(admin) {
				return true
			}
		}
	}
	return false
}

// IAMUser is one IAM user together with every security-relevant attribute
// the rules evaluate. Instances are immutable once the Snapshot holding
// them is constructed.
type IAMUser struct {
	UserName        string           `json:"user_name"`
	CreateDate      time.Time        `json:"create_date"`
	MFAEnabled      bool             `json:"mfa_enabled"`
	AccessKeys      []AccessKey      `json:"access_keys,omitempty"`
	ManagedPolicies []PolicyDocument `json:"managed_policies,omitempty"`
	InlinePolicies  []PolicyDocument `json:"inline_policies,omitempty"`
	Groups          []string         `json:"groups,omitempty"`
}

// ActiveKeyCount returns the number of access keys with status Active.
func (u IAMUser) ActiveKeyCount() int {
	n := 0
	for _, k := range u.AccessKeys {
		if k.Active() {
			n++
		}
	}
	return n
}

// Group is one IAM group with its attached policies. Members is a
// back-reference only; users are owned by the Snapshot.
type Group struct {
	GroupName       string           `json:"group_name"`
	ManagedPolicies []PolicyDocument `json:"managed_policies,omitempty"`
	InlinePolicies  []PolicyDocument `json:"inline_policies,omitempty"`
	Members         []string         `json:"members,omitempty"`
}

// Snapshot is the aggregate root handed to every rule: the full IAM state of
// one account at collection time. It is immutable after construction, which
// is the sole synchronization mechanism that lets rules run concurrently.
type Snapshot struct {
	AccountID   string             `json:"account_id"`
	Profile     string             `json:"profile"`
	CollectedAt time.Time          `json:"collected_at"`
	Users       map[string]IAMUser `json:"users"`
	Groups      map[string]Group   `json:"groups"`
}

// NewSnapshot validates and assembles a Snapshot. Every group a user claims
// membership of must exist in groups; a dangling reference means the
// collector produced inconsistent data and is rejected here rather than
// surfacing as a confusing rule result later.
func NewSnapshot(
	accountID, profile string,
	collectedAt time.Time,
	users map[string]IAMUser,
	groups map[string]Group,
) (*Snapshot, error) {
	if users == nil {
		users = map[string]IAMUser{}
	}
	if groups == nil {
		groups = map[string]Group{}
	}
	s := &Snapshot{
		AccountID:   accountID,
		Profile:     profile,
		CollectedAt: collectedAt,
		Users:       users,
		Groups:      groups,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the referential-closure invariant: every group a user
// references must exist in the Snapshot. NewSnapshot calls this, and the
// engine re-checks it on snapshots handed over by external collectors.
func (s *Snapshot) Validate() error {
	for _, name := range s.UserNames() {
		for _, g := range s.Users[name].Groups {
			if _, ok := s.Groups[g]; !ok {
				return fmt.Errorf("user %q references unknown group %q", name, g)
			}
		}
	}
	return nil
}

// UserNames returns all user names in lexicographic order so iteration over
// the Users map is deterministic.
func (s *Snapshot) UserNames() []string {
	names := make([]string, 0, len(s.Users))
	for name := range s.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachedVia records where an effective policy came from: directly attached
// to the user or inherited through a group.
type AttachedVia struct {
	Policy PolicyDocument
	// Group is the group name for inherited policies, empty for direct ones.
	Group string
}

// Direct reports whether the policy is attached directly to the user.
func (a AttachedVia) Direct() bool { return a.Group == "" }

// EffectivePolicies returns the union of the user's directly attached
// managed policies, inline policies, and every policy attached to each group
// the user belongs to, each tagged with its attachment path. Group order
// follows the user's membership list; direct policies come first.
func (s *Snapshot) EffectivePolicies(u IAMUser) []AttachedVia {
	var out []AttachedVia
	for _, p := range u.ManagedPolicies {
		out = append(out, AttachedVia{Policy: p})
	}
	for _, p := range u.InlinePolicies {
		out = append(out, AttachedVia{Policy: p})
	}
	for _, gname := range u.Groups {
		g, ok := s.Groups[gname]
		if !ok {
			continue // impossible after NewSnapshot validation
		}
		for _, p := range g.ManagedPolicies {
			out = append(out, AttachedVia{Policy: p, Group: gname})
		}
		for _, p := range g.InlinePolicies {
			out = append(out, AttachedVia{Policy: p, Group: gname})
		}
	}
	return out
}

// ResourceCounts summarises how many resources a Snapshot holds.
type ResourceCounts struct {
	Users      int `json:"users"`
	Groups     int `json:"groups"`
	AccessKeys int `json:"access_keys"`
	Policies   int `json:"policies"`
}

// Counts tallies the Snapshot's resources for the report header.
// Policies counts attachments (user and group, managed and inline), matching
// what EffectivePolicies evaluates.
func (s *Snapshot) Counts() ResourceCounts {
	c := ResourceCounts{Users: len(s.Users), Groups: len(s.Groups)}
	for _, u := range s.Users {
		c.AccessKeys += len(u.AccessKeys)
		c.Policies += len(u.ManagedPolicies) + len(u.InlinePolicies)
	}
	for _, g := range s.Groups {
		c.Policies += len(g.ManagedPolicies) + len(g.InlinePolicies)
	}
	return c
}

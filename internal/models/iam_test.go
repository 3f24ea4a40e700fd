package models

import (
	"encoding/json"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ── Snapshot construction ────────────────────────────────────────────────────

// TestNewSnapshot_ReferentialClosure verifies that a user referencing a group
// absent from the Snapshot is rejected at construction, never silently dropped.
func TestNewSnapshot_ReferentialClosure(t *testing.T) {
	users := map[string]IAMUser{
		"alice": {UserName: "alice", Groups: []string{"admins"}},
	}
	_, err := NewSnapshot("123456789012", "default", testTime, users, nil)
	if err == nil {
		t.Fatal("want construction error for dangling group reference, got nil")
	}
}

func TestNewSnapshot_ValidReferences(t *testing.T) {
	users := map[string]IAMUser{
		"alice": {UserName: "alice", Groups: []string{"admins"}},
	}
	groups := map[string]Group{
		"admins": {GroupName: "admins"},
	}
	snap, err := NewSnapshot("123456789012", "default", testTime, users, groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.AccountID != "123456789012" {
		t.Errorf("AccountID = %q; want 123456789012", snap.AccountID)
	}
}

// TestNewSnapshot_NilMaps verifies that nil user and group maps are accepted
// and normalised to empty maps.
func TestNewSnapshot_NilMaps(t *testing.T) {
	snap, err := NewSnapshot("123", "default", testTime, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Users == nil || snap.Groups == nil {
		t.Error("want non-nil Users and Groups maps")
	}
}

func TestSnapshot_UserNamesSorted(t *testing.T) {
	snap, err := NewSnapshot("123", "default", testTime, map[string]IAMUser{
		"zoe":   {UserName: "zoe"},
		"alice": {UserName: "alice"},
		"bob":   {UserName: "bob"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := snap.UserNames()
	want := []string{"alice", "bob", "zoe"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("UserNames()[%d] = %q; want %q", i, names[i], name)
		}
	}
}

// ── EffectivePolicies ────────────────────────────────────────────────────────

// TestEffectivePolicies_UnionWithAttachmentPath verifies that direct managed,
// inline, and group-inherited policies are all present, each tagged with the
// correct attachment path.
func TestEffectivePolicies_UnionWithAttachmentPath(t *testing.T) {
	users := map[string]IAMUser{
		"alice": {
			UserName:        "alice",
			ManagedPolicies: []PolicyDocument{{Name: "ReadOnly"}},
			InlinePolicies:  []PolicyDocument{{Name: "s3-sync"}},
			Groups:          []string{"devs"},
		},
	}
	groups := map[string]Group{
		"devs": {
			GroupName:       "devs",
			ManagedPolicies: []PolicyDocument{{Name: "DevAccess"}},
			InlinePolicies:  []PolicyDocument{{Name: "deploy"}},
		},
	}
	snap, err := NewSnapshot("123", "default", testTime, users, groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eff := snap.EffectivePolicies(snap.Users["alice"])
	if len(eff) != 4 {
		t.Fatalf("want 4 effective policies, got %d", len(eff))
	}
	if !eff[0].Direct() || eff[0].Policy.Name != "ReadOnly" {
		t.Errorf("eff[0] = %+v; want direct ReadOnly", eff[0])
	}
	if !eff[1].Direct() || eff[1].Policy.Name != "s3-sync" {
		t.Errorf("eff[1] = %+v; want direct s3-sync", eff[1])
	}
	if eff[2].Group != "devs" || eff[2].Policy.Name != "DevAccess" {
		t.Errorf("eff[2] = %+v; want DevAccess via devs", eff[2])
	}
	if eff[3].Group != "devs" || eff[3].Policy.Name != "deploy" {
		t.Errorf("eff[3] = %+v; want deploy via devs", eff[3])
	}
}

func TestEffectivePolicies_NoPolicies(t *testing.T) {
	snap, err := NewSnapshot("123", "default", testTime, map[string]IAMUser{
		"bob": {UserName: "bob"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eff := snap.EffectivePolicies(snap.Users["bob"]); len(eff) != 0 {
		t.Errorf("want 0 effective policies, got %d", len(eff))
	}
}

// ── AccessKey ────────────────────────────────────────────────────────────────

func TestAccessKey_AgeDays(t *testing.T) {
	key := AccessKey{CreateDate: testTime.AddDate(0, 0, -120)}
	if got := key.AgeDays(testTime); got != 120 {
		t.Errorf("AgeDays = %d; want 120", got)
	}
}

func TestIAMUser_ActiveKeyCount(t *testing.T) {
	u := IAMUser{AccessKeys: []AccessKey{
		{KeyID: "AKIA1", Status: AccessKeyActive},
		{KeyID: "AKIA2", Status: AccessKeyInactive},
		{KeyID: "AKIA3", Status: AccessKeyActive},
	}}
	if got := u.ActiveKeyCount(); got != 2 {
		t.Errorf("ActiveKeyCount = %d; want 2", got)
	}
}

// ── PolicyDocument ───────────────────────────────────────────────────────────

func TestPolicyDocument_HasWildcardAdmin(t *testing.T) {
	tests := []struct {
		name string
		doc  PolicyDocument
		want bool
	}{
		{
			name: "wildcard allow on wildcard resource",
			doc: PolicyDocument{Statements: []Statement{
				{Effect: "Allow", Action: StringList{"*"}, Resource: StringList{"*"}},
			}},
			want: true,
		},
		{
			name: "deny statement ignored",
			doc: PolicyDocument{Statements: []Statement{
				{Effect: "Deny", Action: StringList{"*"}, Resource: StringList{"*"}},
			}},
			want: false,
		},
		{
			name: "scoped action not admin",
			doc: PolicyDocument{Statements: []Statement{
				{Effect: "Allow", Action: StringList{"s3:*"}, Resource: StringList{"*"}},
			}},
			want: false,
		},
		{
			name: "scoped resource not admin",
			doc: PolicyDocument{Statements: []Statement{
				{Effect: "Allow", Action: StringList{"*"}, Resource: StringList{"arn:aws:s3:::bucket"}},
			}},
			want: false,
		},
		{
			name: "no statements",
			doc:  PolicyDocument{Name: "AdministratorAccess"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.HasWildcardAdmin([]string{"*"}); got != tt.want {
				t.Errorf("HasWildcardAdmin = %v; want %v", got, tt.want)
			}
		})
	}
}

// ── StringList ───────────────────────────────────────────────────────────────

// TestStringList_UnmarshalBothShapes verifies the scalar and array JSON
// encodings decode to the same list.
func TestStringList_UnmarshalBothShapes(t *testing.T) {
	var scalar, array StringList
	if err := json.Unmarshal([]byte(`"s3:GetObject"`), &scalar); err != nil {
		t.Fatalf("scalar unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`["s3:GetObject"]`), &array); err != nil {
		t.Fatalf("array unmarshal: %v", err)
	}
	if len(scalar) != 1 || scalar[0] != "s3:GetObject" {
		t.Errorf("scalar = %v; want [s3:GetObject]", scalar)
	}
	if len(array) != 1 || array[0] != "s3:GetObject" {
		t.Errorf("array = %v; want [s3:GetObject]", array)
	}
}

// ── Counts ───────────────────────────────────────────────────────────────────

func TestSnapshot_Counts(t *testing.T) {
	users := map[string]IAMUser{
		"alice": {
			UserName:        "alice",
			AccessKeys:      []AccessKey{{KeyID: "AKIA1"}, {KeyID: "AKIA2"}},
			ManagedPolicies: []PolicyDocument{{Name: "ReadOnly"}},
			Groups:          []string{"devs"},
		},
		"bob": {UserName: "bob", InlinePolicies: []PolicyDocument{{Name: "x"}}},
	}
	groups := map[string]Group{
		"devs": {GroupName: "devs", ManagedPolicies: []PolicyDocument{{Name: "DevAccess"}}},
	}
	snap, err := NewSnapshot("123", "default", testTime, users, groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := snap.Counts()
	if c.Users != 2 || c.Groups != 1 || c.AccessKeys != 2 || c.Policies != 3 {
		t.Errorf("Counts = %+v; want {Users:2 Groups:1 AccessKeys:2 Policies:3}", c)
	}
}

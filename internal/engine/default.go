package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/rules"
)

// DefaultEngine is the production implementation of Engine.
// It coordinates snapshot collection, concurrent rule evaluation, and report
// assembly. It never calls the AWS SDK or any external service directly.
type DefaultEngine struct {
	collector SnapshotCollector
	registry  rules.RuleRegistry
	policy    *policy.Config
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied
// collector, rule registry, and policy config (nil means defaults).
func NewDefaultEngine(
	collector SnapshotCollector,
	registry rules.RuleRegistry,
	policyCfg *policy.Config,
) *DefaultEngine {
	return &DefaultEngine{
		collector: collector,
		registry:  registry,
		policy:    policyCfg,
	}
}

// RunAudit implements Engine. Only AuditTypeIAM is accepted.
func (e *DefaultEngine) RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error) {
	if opts.AuditType != AuditTypeIAM {
		return nil, fmt.Errorf("unsupported audit type: %q", opts.AuditType)
	}
	if len(opts.Profiles) > 0 {
		return e.runProfiles(ctx, opts.Profiles)
	}
	return e.runSingleProfile(ctx, opts.Profile)
}

// runSingleProfile executes an IAM audit for one AWS profile.
// Collection and validation failures are fatal: a security audit must never
// silently proceed on partial or untrustworthy data.
func (e *DefaultEngine) runSingleProfile(ctx context.Context, profile string) (*models.AuditReport, error) {
	snap, err := e.collector.Collect(ctx, profile)
	if err != nil {
		return nil, &CollectionError{Profile: profile, Err: err}
	}
	if snap == nil {
		return nil, &InvalidSnapshotError{Err: fmt.Errorf("collector returned no snapshot for profile %q", profile)}
	}
	if err := snap.Validate(); err != nil {
		return nil, &InvalidSnapshotError{Err: err}
	}

	findings, degraded := e.evaluate(snap)
	return e.buildReport(snap.Profile, snap.AccountID, snap.Counts(), findings, degraded), nil
}

// runProfiles audits every listed profile and merges findings into a single
// report. Profile failures are skipped non-fatally; an error is returned only
// when no profile can be audited. The report-level Profile is "multi"; each
// individual Finding carries its own Profile and AccountID.
func (e *DefaultEngine) runProfiles(ctx context.Context, profiles []string) (*models.AuditReport, error) {
	var (
		allFindings []models.Finding
		allDegraded []string
		counts      models.ResourceCounts
		audited     int
	)

	for _, profile := range profiles {
		snap, err := e.collector.Collect(ctx, profile)
		if err != nil || snap == nil {
			continue // skip this profile; others may succeed
		}
		if err := snap.Validate(); err != nil {
			continue
		}
		audited++

		findings, degraded := e.evaluate(snap)
		allFindings = append(allFindings, findings...)
		allDegraded = append(allDegraded, degraded...)

		c := snap.Counts()
		counts.Users += c.Users
		counts.Groups += c.Groups
		counts.AccessKeys += c.AccessKeys
		counts.Policies += c.Policies
	}

	if audited == 0 {
		return nil, fmt.Errorf("all profiles failed; no IAM data collected")
	}
	return e.buildReport("multi", "", counts, allFindings, dedupeStrings(allDegraded)), nil
}

// ruleResult is the outcome of one rule's evaluation.
type ruleResult struct {
	findings []models.Finding
	err      error
}

// evaluate runs every registered rule against snap concurrently and returns
// the merged findings plus the IDs of rules whose evaluation failed.
//
// Rules are pure functions over the immutable Snapshot, so no synchronization
// beyond the WaitGroup is needed and evaluation order cannot affect output.
// A failing rule (error or panic) is isolated: its contribution is dropped
// and its ID recorded as degraded coverage, because a partial audit is still
// valuable and an all-or-nothing audit would push operators to silence real
// findings by fixing unrelated edge cases.
func (e *DefaultEngine) evaluate(snap *models.Snapshot) ([]models.Finding, []string) {
	rctx := rules.RuleContext{
		Snapshot: snap,
		// Pin the reference time to collection time so repeated evaluations
		// of the same Snapshot age keys identically.
		Now:    snap.CollectedAt,
		Policy: e.policy,
	}

	ruleSet := e.registry.All()
	results := make([]ruleResult, len(ruleSet))

	var wg sync.WaitGroup
	for i, rule := range ruleSet {
		wg.Add(1)
		go func(i int, rule rules.Rule) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = ruleResult{err: fmt.Errorf("rule %s panicked: %v", rule.ID(), r)}
				}
			}()
			findings, err := rule.Evaluate(rctx)
			results[i] = ruleResult{findings: findings, err: err}
		}(i, rule)
	}
	wg.Wait()

	var findings []models.Finding
	var degraded []string
	for i, res := range results {
		if res.err != nil {
			degraded = append(degraded, ruleSet[i].ID())
			continue
		}
		findings = append(findings, res.findings...)
	}
	sort.Strings(degraded)
	return findings, degraded
}

// buildReport assembles the final AuditReport: policy overrides are applied,
// duplicates removed, and the survivors sorted into the canonical order.
func (e *DefaultEngine) buildReport(
	profile, accountID string,
	counts models.ResourceCounts,
	findings []models.Finding,
	degraded []string,
) *models.AuditReport {
	findings = policy.ApplyPolicy(findings, e.policy)
	findings = dedupeFindings(findings)
	sortFindings(findings)

	now := time.Now().UTC()
	return &models.AuditReport{
		ReportID:    fmt.Sprintf("audit-%d", now.UnixNano()),
		GeneratedAt: now,
		AuditType:   string(AuditTypeIAM),
		Profile:     profile,
		AccountID:   accountID,
		Resources:   counts,
		Summary:     computeSummary(findings),
		Findings:    findings,
		Degraded:    degraded,
	}
}

// identityKey returns the deduplication key for a finding: account, profile,
// rule, subject, and canonical evidence. Account and profile are part of the
// identity because merged multi-profile reports can carry same-named users
// from different accounts; those are distinct findings, not duplicates.
// encoding/json sorts map keys, which makes the evidence encoding stable
// regardless of construction order.
func identityKey(f models.Finding) string {
	evidence, err := json.Marshal(f.Evidence)
	if err != nil {
		evidence = []byte(fmt.Sprintf("%v", f.Evidence))
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		f.AccountID, f.Profile, f.RuleID, f.ResourceKind, f.ResourceID, evidence)
}

// dedupeFindings drops findings whose identity key was already seen,
// preserving first-occurrence order. Two rules (or a double-registered rule)
// emitting the same finding leave exactly one in the report.
func dedupeFindings(findings []models.Finding) []models.Finding {
	seen := make(map[string]struct{}, len(findings))
	result := make([]models.Finding, 0, len(findings))
	for _, f := range findings {
		key := identityKey(f)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, f)
	}
	return result
}

// sortFindings sorts findings in-place into the report's canonical order:
// severity descending (CRITICAL first), then rule ID ascending, then subject
// ascending, then profile and account. The profile/account tiebreak keeps
// the ordering total in merged multi-profile reports, where the same rule
// can flag same-named users in different accounts.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri := models.SeverityRank[findings[i].Severity]
		rj := models.SeverityRank[findings[j].Severity]
		if ri != rj {
			return ri < rj
		}
		if findings[i].RuleID != findings[j].RuleID {
			return findings[i].RuleID < findings[j].RuleID
		}
		if findings[i].ResourceID != findings[j].ResourceID {
			return findings[i].ResourceID < findings[j].ResourceID
		}
		if findings[i].Profile != findings[j].Profile {
			return findings[i].Profile < findings[j].Profile
		}
		return findings[i].AccountID < findings[j].AccountID
	})
}

// computeSummary aggregates finding counts across all severity levels.
func computeSummary(findings []models.Finding) models.AuditSummary {
	var s models.AuditSummary
	s.TotalFindings = len(findings)
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityCritical:
			s.CriticalFindings++
		case models.SeverityHigh:
			s.HighFindings++
		case models.SeverityMedium:
			s.MediumFindings++
		case models.SeverityLow:
			s.LowFindings++
		}
	}
	return s
}

// dedupeStrings returns vals with duplicates removed, sorted.
func dedupeStrings(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	var out []string
	for _, v := range vals {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

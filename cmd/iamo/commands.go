package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/engine"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/output"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/providers/aws/common"
	awsiam "github.com/ranas-mukminov/cloud-iam-optimizer/internal/providers/aws/iam"
	iampack "github.com/ranas-mukminov/cloud-iam-optimizer/internal/rulepacks/iam"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/rules"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/version"
)

// defaultPolicyPath is the policy file picked up from the working directory
// when --policy is not given. Its absence is not an error.
const defaultPolicyPath = "./iamo.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "iamo",
		Short: "Cloud IAM Optimizer — least-privilege auditor for cloud accounts",
	}
	root.AddCommand(newAuditCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run an audit against a cloud account",
	}
	cmd.AddCommand(newIAMCmd())
	return cmd
}

func newIAMCmd() *cobra.Command {
	var (
		profile     string
		allProfiles bool
		reportFmt   string
		summary     bool
		outputPath  string
		policyPath  string
		colored     bool
	)

	cmd := &cobra.Command{
		Use:   "iam",
		Short: "Audit IAM users, keys, and policies for security weaknesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			policyCfg, err := loadPolicyConfig(policyPath)
			if err != nil {
				return err
			}

			provider := common.NewDefaultAWSClientProvider()
			collector := awsiam.NewDefaultSnapshotCollector(provider)

			registry := rules.NewDefaultRuleRegistry()
			for _, r := range iampack.New() {
				registry.Register(r)
			}

			eng := engine.NewDefaultEngine(collector, registry, policyCfg)

			opts := engine.AuditOptions{
				AuditType: engine.AuditTypeIAM,
				Profile:   profile,
			}
			if allProfiles {
				profiles, err := provider.ListProfiles()
				if err != nil {
					return fmt.Errorf("discover AWS profiles: %w", err)
				}
				if len(profiles) == 0 {
					return fmt.Errorf("no AWS profiles found")
				}
				opts.Profiles = profiles
			}

			report, err := eng.RunAudit(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}

			if outputPath != "" {
				if err := writeReportToFile(outputPath, report); err != nil {
					return err
				}
			}

			switch {
			case summary:
				printSummary(os.Stdout, report)
			case reportFmt == "json":
				if err := printJSON(report); err != nil {
					return err
				}
			default:
				printReport(os.Stdout, report, output.TableOptions{
					Colored:        colored,
					IncludeProfile: allProfiles,
				})
			}

			if policy.ShouldFail(report.Findings, policyCfg) {
				fmt.Fprintln(os.Stderr, "findings at or above the configured fail_on_severity threshold")
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (default: uses environment / default profile)")
	cmd.Flags().BoolVar(&allProfiles, "all-profiles", false, "Audit all configured AWS profiles")
	cmd.Flags().StringVar(&reportFmt, "report", "text", "Output format: json or text")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print compact summary: totals and severity breakdown")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Policy file path (default: ./iamo.yaml when present)")
	cmd.Flags().BoolVar(&colored, "color", false, "Colourise severity labels in text output")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// loadPolicyConfig loads the policy file at path, or the default path when
// path is empty. A missing default file means "no policy"; a missing explicit
// file is an error.
func loadPolicyConfig(path string) (*policy.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultPolicyPath); err != nil {
			return nil, nil
		}
		path = defaultPolicyPath
	}
	cfg, err := policy.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	if errs := policy.Validate(cfg, allRuleIDs()); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("invalid policy file %q:\n  %s", path, strings.Join(msgs, "\n  "))
	}
	return cfg, nil
}

// allRuleIDs returns the IDs of every rule in the IAM pack, for policy
// validation.
func allRuleIDs() []string {
	pack := iampack.New()
	ids := make([]string, 0, len(pack))
	for _, r := range pack {
		ids = append(ids, r.ID())
	}
	return ids
}

// printJSON writes the report as indented JSON to stdout.
func printJSON(report *models.AuditReport) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeReportToFile serialises report as indented JSON and writes it to path,
// creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, report *models.AuditReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}

// printReport renders a human-readable header, the findings table, and any
// degraded-coverage warning.
func printReport(w io.Writer, report *models.AuditReport, opts output.TableOptions) {
	s := report.Summary
	fmt.Fprintf(w,
		"Profile: %-20s  Account: %-14s  Users: %d  Groups: %d  Keys: %d  Findings: %d\n",
		report.Profile,
		report.AccountID,
		report.Resources.Users,
		report.Resources.Groups,
		report.Resources.AccessKeys,
		s.TotalFindings,
	)
	fmt.Fprintln(w)
	output.RenderTable(w, report.Findings, opts)
	printDegraded(w, report)
}

// printSummary renders a compact summary view to w:
//   - Account / profile / resource header
//   - Total findings and per-severity counts
//   - Degraded-coverage warning when present
//
// It reuses the already-computed AuditReport; no engine logic is duplicated.
func printSummary(w io.Writer, report *models.AuditReport) {
	s := report.Summary

	fmt.Fprintf(w, "Account:  %s\n", report.AccountID)
	fmt.Fprintf(w, "Profile:  %s\n", report.Profile)
	fmt.Fprintf(w, "Users:    %d\n", report.Resources.Users)
	fmt.Fprintf(w, "Groups:   %d\n", report.Resources.Groups)
	fmt.Fprintf(w, "Keys:     %d\n", report.Resources.AccessKeys)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:  %d\n", s.TotalFindings)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Severity Breakdown")
	fmt.Fprintf(w, "  %-10s  %d\n", "CRITICAL", s.CriticalFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "HIGH", s.HighFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "MEDIUM", s.MediumFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "LOW", s.LowFindings)
	printDegraded(w, report)
}

// printDegraded warns when rule coverage was reduced during the run.
func printDegraded(w io.Writer, report *models.AuditReport) {
	if len(report.Degraded) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "WARNING: degraded coverage — these rules failed to evaluate: %s\n",
		strings.Join(report.Degraded, ", "))
}

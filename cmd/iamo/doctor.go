package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/providers/aws/common"
)

// DoctorResult is the structured output of iamo doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Policy struct {
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			result, err := runDoctor(
				context.Background(),
				common.NewDefaultAWSClientProvider(),
				cmd.OutOrStdout(),
				format,
				profile,
			)
			if err != nil {
				// Rendering failure — let Cobra/main handle it.
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.go's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy; runDoctor itself never returns an error for an
// unhealthy result so that no error text leaks to callers (such as main).
func runDoctor(ctx context.Context, awsProvider common.AWSClientProvider, w io.Writer, format, profile string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, awsProvider, profile)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering; callers decide how to present the result.
func collectDoctorResult(ctx context.Context, awsProvider common.AWSClientProvider, profile string) DoctorResult {
	var result DoctorResult

	// AWS: credentials → STS account ID.
	// An empty profile string selects the default credential chain.
	if profile != "" {
		result.AWS.Profile = profile
	}
	profileCfg, err := awsProvider.LoadProfile(ctx, profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
	}

	// Policy: stat → load → validate (file is optional).
	_, statErr := os.Stat(defaultPolicyPath)
	if statErr == nil {
		result.Policy.Present = true
		cfg, loadErr := policy.LoadPolicy(defaultPolicyPath)
		if loadErr != nil {
			result.Policy.Errors = []string{loadErr.Error()}
		} else {
			errs := policy.Validate(cfg, allRuleIDs())
			if len(errs) == 0 {
				result.Policy.Valid = true
			} else {
				for _, e := range errs {
					result.Policy.Errors = append(result.Policy.Errors, e.Error())
				}
			}
		}
	} else if !os.IsNotExist(statErr) {
		// Stat error other than "not found" — treat as present but unreadable.
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
	}

	fmt.Fprintln(w, "\nPolicy:")
	if !result.Policy.Present {
		doctorPrint(w, "iamo.yaml present", "Not found (optional)", "")
	} else {
		doctorPrint(w, "iamo.yaml present", "YES", "")
		if result.Policy.Valid {
			doctorPrint(w, "Policy valid", "OK", "")
		} else {
			for _, e := range result.Policy.Errors {
				doctorPrint(w, "Policy valid", "FAIL", e)
			}
		}
	}
}

// doctorPrint writes one aligned diagnostic line, with an optional detail suffix.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %-20s %-8s %s\n", label, status, detail)
		return
	}
	fmt.Fprintf(w, "  %-20s %s\n", label, status)
}

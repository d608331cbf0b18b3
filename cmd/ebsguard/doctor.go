package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudhygiene/ebsguard/internal/providers/aws/common"
)

// DoctorResult is the structured output of ebsguard doctor. It can be
// serialised to JSON via --format=json or rendered as a human-readable table
// (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Report struct {
		Path     string `json:"path"`
		Writable bool   `json:"writable"`
		Error    string `json:"error,omitempty"`
	} `json:"report"`

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
			a := appFromContext(cmd.Context())
			result, err := runDoctor(cmd.Context(), a.provider, a.out, format, a.profile, a.cfg.ReportPath)
			if err != nil {
				// Rendering failure, let Cobra/main handle it.
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result. The returned error covers only
// rendering failures; callers must inspect result.OverallHealthy.
func runDoctor(ctx context.Context, provider common.AWSClientProvider, w io.Writer, format, profile, reportPath string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, provider, profile, reportPath)

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

// collectDoctorResult runs all environment checks and populates a
// DoctorResult. It performs no rendering.
func collectDoctorResult(ctx context.Context, provider common.AWSClientProvider, profile, reportPath string) DoctorResult {
	var result DoctorResult

	// AWS: credentials → STS account ID → region discovery.
	// An empty profile string selects the default credential chain.
	if profile != "" {
		result.AWS.Profile = profile
	}
	profileCfg, err := provider.LoadProfile(ctx, profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		if _, err := provider.GetActiveRegions(ctx, profileCfg); err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
		}
	}

	// Report path: the fleet audit must be able to create and truncate it.
	result.Report.Path = reportPath
	result.Report.Writable = reportPathWritable(reportPath, &result.Report.Error)

	result.OverallHealthy = result.AWS.Credentials && result.AWS.RegionsOK && result.Report.Writable
	return result
}

// reportPathWritable probes whether the report file can be created or
// overwritten without leaving a new file behind.
func reportPathWritable(path string, errOut *string) bool {
	if path == "" {
		*errOut = "report path is empty"
		return false
	}
	if _, err := os.Stat(path); err == nil {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			*errOut = err.Error()
			return false
		}
		f.Close()
		return true
	}
	probe := filepath.Join(filepath.Dir(path), ".ebsguard-doctor-probe")
	f, err := os.Create(probe)
	if err != nil {
		*errOut = err.Error()
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

func renderDoctorTable(result DoctorResult, w io.Writer) {
	status := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "FAIL"
	}

	fmt.Fprintln(w, "AWS")
	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "  Profile:      %s\n", result.AWS.Profile)
	}
	fmt.Fprintf(w, "  Credentials:  %s\n", status(result.AWS.Credentials))
	if result.AWS.AccountID != "" {
		fmt.Fprintf(w, "  Account:      %s\n", result.AWS.AccountID)
	}
	fmt.Fprintf(w, "  Regions:      %s\n", status(result.AWS.RegionsOK))
	if result.AWS.Error != "" {
		fmt.Fprintf(w, "  Error:        %s\n", result.AWS.Error)
	}

	fmt.Fprintln(w, "Report")
	fmt.Fprintf(w, "  Path:         %s\n", result.Report.Path)
	fmt.Fprintf(w, "  Writable:     %s\n", status(result.Report.Writable))
	if result.Report.Error != "" {
		fmt.Fprintf(w, "  Error:        %s\n", result.Report.Error)
	}

	fmt.Fprintln(w)
	if result.OverallHealthy {
		fmt.Fprintln(w, "Environment healthy.")
	} else {
		fmt.Fprintln(w, "Environment unhealthy.")
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cloudhygiene/ebsguard/internal/audit"
	"github.com/cloudhygiene/ebsguard/internal/config"
	ebspack "github.com/cloudhygiene/ebsguard/internal/controlpacks/ebs"
	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/engine"
	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/output"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/common"
	ebsprovider "github.com/cloudhygiene/ebsguard/internal/providers/aws/ebs"
	"github.com/cloudhygiene/ebsguard/internal/remediation"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

// app bundles the wired components every subcommand shares. Tests substitute
// fakes for the interfaces; production wiring happens in newApp.
type app struct {
	cfg       *config.Config
	provider  common.AWSClientProvider
	collector ebsprovider.Collector
	engine    engine.Engine
	out       io.Writer

	profile string
	region  string
}

// newApp wires the production dependency graph from the loaded config.
func newApp(cfg *config.Config, profile, region string) *app {
	provider := common.NewDefaultAWSClientProvider()
	collector := ebsprovider.NewDefaultCollector()

	registry := controls.NewDefaultRegistry()
	for _, c := range ebspack.New() {
		if cfg.ControlDisabled(c.ID()) {
			continue
		}
		registry.Register(c)
	}

	if profile == "" {
		profile = cfg.Profile
	}
	if region == "" {
		region = cfg.Region
	}
	a := &app{
		cfg:       cfg,
		provider:  provider,
		collector: collector,
		out:       os.Stdout,
		profile:   profile,
		region:    region,
	}
	a.engine = engine.NewControlEngine(
		provider,
		collector,
		registry,
		remediation.NewDefaultRemediator(),
		a.retryConfig(),
	)
	return a
}

func (a *app) retryConfig() retry.Config {
	rc := retry.DefaultConfig()
	if a.cfg.Retry.MaxAttempts > 0 {
		rc.MaxAttempts = a.cfg.Retry.MaxAttempts
	}
	if d := a.cfg.Retry.InitialDelayDuration(); d > 0 {
		rc.InitialDelay = d
	}
	if a.cfg.Retry.Factor >= 1 {
		rc.Factor = a.cfg.Retry.Factor
	}
	return rc
}

// runControls evaluates the selected controls and renders the report. The
// returned error is non-nil when the run itself failed or when any result
// was indeterminate, so scripts can trust the exit code.
func (a *app) runControls(ctx context.Context, ids []string, target string, remediate bool, reportFmt string) error {
	report, err := a.engine.RunControls(ctx, engine.RunOptions{
		Profile:   a.profile,
		Region:    a.region,
		Controls:  ids,
		Target:    target,
		Remediate: remediate,
	})
	if err != nil {
		return err
	}

	if reportFmt == string(engine.ReportFormatJSON) {
		if err := a.printJSON(report); err != nil {
			return err
		}
	} else {
		output.RenderResults(a.out, report.Results, output.TableOptions{Colored: !a.cfg.NoColor})
		output.RenderSummary(a.out, report.Summary)
	}

	if report.Summary.Indeterminate > 0 {
		return fmt.Errorf("%d result(s) indeterminate", report.Summary.Indeterminate)
	}
	return nil
}

// auditVolumes runs the fleet audit and writes the report file.
func (a *app) auditVolumes(ctx context.Context, parallel bool, outputPath string) error {
	profile, err := a.provider.LoadProfile(ctx, a.profile)
	if err != nil {
		return fmt.Errorf("load profile %q: %w", a.profile, err)
	}
	region := a.region
	if region == "" {
		region = profile.Region
	}
	cfg := a.provider.ConfigForRegion(profile, region)

	fleet := &audit.FleetAuditor{
		Volume:  &audit.VolumeAuditor{Collector: a.collector, Retry: a.retryConfig()},
		Workers: a.cfg.Workers,
	}
	records, err := fleet.Audit(ctx, cfg, region, parallel)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = a.cfg.ReportPath
	}
	if err := audit.WriteReport(outputPath, records); err != nil {
		return err
	}

	output.RenderRecords(a.out, records)
	indeterminate := 0
	for _, r := range records {
		if r.Indeterminate() {
			indeterminate++
		}
	}
	fmt.Fprintf(a.out, "\n%d volume(s) audited, report written to %s\n", len(records), outputPath)
	if indeterminate > 0 {
		return fmt.Errorf("%d volume record(s) indeterminate", indeterminate)
	}
	return nil
}

// auditVolume audits a single volume without touching the report file.
func (a *app) auditVolume(ctx context.Context, volumeID string) error {
	profile, err := a.provider.LoadProfile(ctx, a.profile)
	if err != nil {
		return fmt.Errorf("load profile %q: %w", a.profile, err)
	}
	region := a.region
	if region == "" {
		region = profile.Region
	}
	cfg := a.provider.ConfigForRegion(profile, region)

	auditor := &audit.VolumeAuditor{Collector: a.collector, Retry: a.retryConfig()}
	rec := auditor.Audit(ctx, cfg, region, volumeID)
	output.RenderRecords(a.out, []models.VolumeAuditRecord{rec})
	if rec.Indeterminate() {
		return fmt.Errorf("volume %s has indeterminate fields", volumeID)
	}
	return nil
}

// validateOrphans prints orphaned snapshot IDs, one per line.
func (a *app) validateOrphans(ctx context.Context) error {
	profile, err := a.provider.LoadProfile(ctx, a.profile)
	if err != nil {
		return fmt.Errorf("load profile %q: %w", a.profile, err)
	}
	region := a.region
	if region == "" {
		region = profile.Region
	}
	cfg := a.provider.ConfigForRegion(profile, region)

	validator := &audit.OrphanValidator{Collector: a.collector, Retry: a.retryConfig()}
	report, err := validator.Validate(ctx, cfg, region)
	if err != nil {
		return err
	}

	if len(report.Orphaned) == 0 {
		fmt.Fprintln(a.out, "No orphaned snapshots.")
	} else {
		for _, id := range report.Orphaned {
			fmt.Fprintln(a.out, id)
		}
	}
	for _, id := range report.Indeterminate {
		fmt.Fprintf(a.out, "%s: no source volume recorded, cannot classify\n", id)
	}
	return nil
}

// printJSON writes v as indented JSON to the app writer.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type appContextKey struct{}

// withAppContext stores the wired app on the command context so subcommands
// share one dependency graph per invocation.
func withAppContext(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appContextKey{}, a)
}

// appFromContext retrieves the app stored by the root PersistentPreRunE.
// Panics when wiring was skipped, which is a programming error.
func appFromContext(ctx context.Context) *app {
	a, ok := ctx.Value(appContextKey{}).(*app)
	if !ok {
		panic("app not initialised on command context")
	}
	return a
}

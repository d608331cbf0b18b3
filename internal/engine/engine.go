package engine

import (
	"context"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// RunOptions configures a single control run.
type RunOptions struct {
	// Profile is the named AWS profile to use. Empty means the default
	// profile.
	Profile string

	// Region is the region to evaluate. Empty uses the profile's home
	// region.
	Region string

	// Controls lists the canonical control IDs to run. Empty runs every
	// registered control.
	Controls []string

	// Target restricts evaluation to one resource ID (volume or snapshot
	// depending on the control's subject).
	Target string

	// Remediate applies the automatic fix for failed remediable controls
	// (delete-on-termination, encrypt-via-snapshot).
	Remediate bool
}

// Engine orchestrates collection, control evaluation, and optional
// remediation, returning a fully populated AuditReport.
//
// Engine must not call AWS SDK clients directly; it delegates to the
// provider, collector, and remediator interfaces.
type Engine interface {
	RunControls(ctx context.Context, opts RunOptions) (*models.AuditReport, error)
}

package models

import "time"

// Outcome is the three-valued result of a single control evaluation.
// ERROR means the control could not determine compliance (missing resource,
// failed API read); only PASS and FAIL feed compliance summaries.
type Outcome string

const (
	OutcomePass  Outcome = "PASS"
	OutcomeFail  Outcome = "FAIL"
	OutcomeError Outcome = "ERROR"
)

// ResourceType identifies the kind of resource a control result refers to.
type ResourceType string

const (
	ResourceVolume   ResourceType = "EBS_VOLUME"
	ResourceSnapshot ResourceType = "EBS_SNAPSHOT"
	ResourceAccount  ResourceType = "ACCOUNT"
)

// ControlResult is a single control evaluation against one resource.
// It is the atomic output unit of the control engine.
type ControlResult struct {
	ControlID    string       `json:"control_id"`
	ResourceID   string       `json:"resource_id,omitempty"`
	ResourceType ResourceType `json:"resource_type"`
	Region       string       `json:"region"`
	AccountID    string       `json:"account_id,omitempty"`
	Outcome      Outcome      `json:"outcome"`

	// Reason is the human-readable explanation for a FAIL or ERROR outcome.
	// Empty on PASS.
	Reason string `json:"reason,omitempty"`

	// Remediated is true when a remediation workflow was run for this result.
	Remediated bool `json:"remediated,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// VolumeAuditRecord is the per-volume row of the fleet audit report.
// Every field derives strictly from provider state at query time; records are
// written once and never mutated. A failed read yields "unknown", never a
// fabricated "false".
type VolumeAuditRecord struct {
	VolumeID            string  `json:"volume_id"`
	DeleteOnTermination TriBool `json:"delete_on_termination"`
	Encrypted           TriBool `json:"encrypted"`
	BackupPlan          TriBool `json:"backup_plan"`
	HasSnapshots        TriBool `json:"has_snapshots"`
	Attached            TriBool `json:"attached"`
}

// Indeterminate reports whether any field of the record is unknown.
func (r VolumeAuditRecord) Indeterminate() bool {
	return !r.DeleteOnTermination.Known() ||
		!r.Encrypted.Known() ||
		!r.BackupPlan.Known() ||
		!r.HasSnapshots.Known() ||
		!r.Attached.Known()
}

// AuditSummary aggregates outcome counts across all control results.
// Indeterminate counts ERROR outcomes; they are excluded from the
// pass/fail compliance totals.
type AuditSummary struct {
	TotalResults  int `json:"total_results"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Indeterminate int `json:"indeterminate"`
	Remediated    int `json:"remediated"`
}

// AuditReport is the top-level output of a control run or fleet audit.
type AuditReport struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
	AccountID   string    `json:"account_id"`
	Profile     string    `json:"profile"`
	Region      string    `json:"region"`

	Summary AuditSummary    `json:"summary"`
	Results []ControlResult `json:"results,omitempty"`

	// Records holds the per-volume fleet audit rows. This slice is what the
	// report file serialises as its JSON array.
	Records []VolumeAuditRecord `json:"records,omitempty"`
}

// OrphanReport is the output of the orphaned-snapshot validation.
// It is printed to the console and never persisted to the report file.
type OrphanReport struct {
	Region string `json:"region"`

	// Orphaned lists snapshot IDs whose source volume no longer exists.
	// Each orphan appears exactly once.
	Orphaned []string `json:"orphaned"`

	// Indeterminate lists snapshot IDs that carry no source volume ID.
	// Existence of an empty volume ID is undefined, so these are reported
	// separately instead of being classified either way.
	Indeterminate []string `json:"indeterminate,omitempty"`
}

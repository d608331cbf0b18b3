// Package controls defines the stateless EBS compliance controls and the
// registry that drives their evaluation.
package controls

import (
	"time"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// ControlContext carries all collected data for a single region and profile.
// It is the sole input to Control.Evaluate and must contain everything a
// control needs; controls must never make network calls, mutate cloud state,
// or read external state. Remediation is a separate concern driven by the
// engine after evaluation.
type ControlContext struct {
	// AccountID is the AWS account being evaluated.
	AccountID string

	// Profile is the AWS profile name for this evaluation run.
	Profile string

	// Data holds all EBS resources collected from the target region.
	Data *models.RegionData

	// Target restricts evaluation to a single resource ID (volume or
	// snapshot, depending on the control's subject). Empty evaluates every
	// matching resource in Data. A target that cannot be found yields a
	// single ERROR result, never a fabricated FAIL.
	Target string
}

// Control is a single deterministic compliance control.
// Controls must be stateless and safe to call concurrently.
// Every evaluation produces PASS, FAIL, or ERROR per resource; ERROR means
// compliance could not be determined and must not feed pass/fail totals.
type Control interface {
	// ID returns the unique, stable identifier for this control
	// (e.g. "VOL_ENCRYPTED").
	ID() string

	// Name returns a short human-readable control name.
	Name() string

	// Evaluate inspects the provided context and returns one result per
	// evaluated resource.
	Evaluate(ctx ControlContext) []models.ControlResult
}

// result builds a ControlResult stamped with the evaluation context.
func result(ctx ControlContext, controlID, resourceID string, rt models.ResourceType, outcome models.Outcome, reason string) models.ControlResult {
	region := ""
	if ctx.Data != nil {
		region = ctx.Data.Region
	}
	return models.ControlResult{
		ControlID:    controlID,
		ResourceID:   resourceID,
		ResourceType: rt,
		Region:       region,
		AccountID:    ctx.AccountID,
		Outcome:      outcome,
		Reason:       reason,
		EvaluatedAt:  time.Now().UTC(),
	}
}

// missingData is the shared ERROR result for a nil RegionData.
func missingData(ctx ControlContext, controlID string, rt models.ResourceType) []models.ControlResult {
	return []models.ControlResult{
		result(ctx, controlID, ctx.Target, rt, models.OutcomeError, "no region data collected"),
	}
}

// targetVolumes resolves the volumes a volume-subject control evaluates:
// the single target when set, otherwise every collected volume. The second
// return is false when the target does not exist in the collected set.
func targetVolumes(ctx ControlContext) ([]models.EBSVolume, bool) {
	if ctx.Target == "" {
		return ctx.Data.Volumes, true
	}
	v, ok := ctx.Data.VolumeByID(ctx.Target)
	if !ok {
		return nil, false
	}
	return []models.EBSVolume{v}, true
}

// targetSnapshots resolves the snapshots a snapshot-subject control
// evaluates, mirroring targetVolumes.
func targetSnapshots(ctx ControlContext) ([]models.EBSSnapshot, bool) {
	if ctx.Target == "" {
		return ctx.Data.Snapshots, true
	}
	s, ok := ctx.Data.SnapshotByID(ctx.Target)
	if !ok {
		return nil, false
	}
	return []models.EBSSnapshot{s}, true
}

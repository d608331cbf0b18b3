package controls

import (
	"fmt"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

const SnapshotNotPublicID = "SNAP_NOT_PUBLIC"

// SnapshotNotPublicControl checks that a snapshot has no createVolumePermission
// grants. Any grant, whether the "all" group or an individual account, fails.
// When the permission list could not be fetched the outcome is ERROR.
type SnapshotNotPublicControl struct{}

func (SnapshotNotPublicControl) ID() string   { return SnapshotNotPublicID }
func (SnapshotNotPublicControl) Name() string { return "Snapshot Not Shared" }

func (c SnapshotNotPublicControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, SnapshotNotPublicID, models.ResourceSnapshot)
	}
	snaps, found := targetSnapshots(ctx)
	if !found {
		return []models.ControlResult{result(ctx, SnapshotNotPublicID, ctx.Target,
			models.ResourceSnapshot, models.OutcomeError, "snapshot not found")}
	}

	var results []models.ControlResult
	for _, s := range snaps {
		if !s.PermissionsKnown {
			results = append(results, result(ctx, SnapshotNotPublicID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeError, "snapshot permissions could not be read"))
			continue
		}
		if s.Public() {
			results = append(results, result(ctx, SnapshotNotPublicID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeFail,
				fmt.Sprintf("snapshot has %d createVolumePermission grant(s)", len(s.CreateVolumePermissions))))
		} else {
			results = append(results, result(ctx, SnapshotNotPublicID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomePass, ""))
		}
	}
	return results
}

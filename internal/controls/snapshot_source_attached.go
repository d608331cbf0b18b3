package controls

import (
	"fmt"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

const SnapshotSourceAttachedID = "SNAP_SOURCE_ATTACHED"

// SnapshotSourceAttachedControl checks that the volume a snapshot was taken
// from still exists and is attached. A snapshot whose source volume is gone,
// or whose recorded volume ID is empty, cannot be validated and yields ERROR.
type SnapshotSourceAttachedControl struct{}

func (SnapshotSourceAttachedControl) ID() string   { return SnapshotSourceAttachedID }
func (SnapshotSourceAttachedControl) Name() string { return "Snapshot Source Volume Attached" }

func (c SnapshotSourceAttachedControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, SnapshotSourceAttachedID, models.ResourceSnapshot)
	}
	snaps, found := targetSnapshots(ctx)
	if !found {
		return []models.ControlResult{result(ctx, SnapshotSourceAttachedID, ctx.Target,
			models.ResourceSnapshot, models.OutcomeError, "snapshot not found")}
	}

	var results []models.ControlResult
	for _, s := range snaps {
		if s.VolumeID == "" {
			results = append(results, result(ctx, SnapshotSourceAttachedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeError, "snapshot records no source volume ID"))
			continue
		}
		vol, ok := ctx.Data.VolumeByID(s.VolumeID)
		if !ok {
			results = append(results, result(ctx, SnapshotSourceAttachedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeError,
				fmt.Sprintf("source volume %s no longer exists", s.VolumeID)))
			continue
		}
		if vol.Attached() {
			results = append(results, result(ctx, SnapshotSourceAttachedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomePass, ""))
		} else {
			results = append(results, result(ctx, SnapshotSourceAttachedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeFail,
				fmt.Sprintf("source volume %s exists but is not attached", s.VolumeID)))
		}
	}
	return results
}

package controls

import "github.com/cloudhygiene/ebsguard/internal/models"

const VolumeHasSnapshotsID = "VOL_HAS_SNAPSHOTS"

// VolumeHasSnapshotsControl checks that at least one self-owned snapshot
// references the volume.
type VolumeHasSnapshotsControl struct{}

func (VolumeHasSnapshotsControl) ID() string   { return VolumeHasSnapshotsID }
func (VolumeHasSnapshotsControl) Name() string { return "Volume Has Snapshots" }

func (c VolumeHasSnapshotsControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, VolumeHasSnapshotsID, models.ResourceVolume)
	}
	vols, found := targetVolumes(ctx)
	if !found {
		return []models.ControlResult{result(ctx, VolumeHasSnapshotsID, ctx.Target,
			models.ResourceVolume, models.OutcomeError, "volume not found")}
	}

	var results []models.ControlResult
	for _, v := range vols {
		if ctx.Data.SnapshotCount(v.VolumeID) > 0 {
			results = append(results, result(ctx, VolumeHasSnapshotsID, v.VolumeID,
				models.ResourceVolume, models.OutcomePass, ""))
		} else {
			results = append(results, result(ctx, VolumeHasSnapshotsID, v.VolumeID,
				models.ResourceVolume, models.OutcomeFail, "volume has no snapshots"))
		}
	}
	return results
}

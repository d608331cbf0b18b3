package controls

import "github.com/cloudhygiene/ebsguard/internal/models"

const VolumeBackupPlanID = "VOL_BACKUP_PLAN"

// VolumeBackupPlanControl checks that a volume appears in the AWS Backup
// protected-resource list. When the list itself could not be collected the
// outcome is ERROR for every evaluated volume.
type VolumeBackupPlanControl struct{}

func (VolumeBackupPlanControl) ID() string   { return VolumeBackupPlanID }
func (VolumeBackupPlanControl) Name() string { return "Volume In Backup Plan" }

func (c VolumeBackupPlanControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, VolumeBackupPlanID, models.ResourceVolume)
	}
	vols, found := targetVolumes(ctx)
	if !found {
		return []models.ControlResult{result(ctx, VolumeBackupPlanID, ctx.Target,
			models.ResourceVolume, models.OutcomeError, "volume not found")}
	}

	var results []models.ControlResult
	for _, v := range vols {
		if ctx.Data.ProtectedVolumeIDs == nil {
			results = append(results, result(ctx, VolumeBackupPlanID, v.VolumeID,
				models.ResourceVolume, models.OutcomeError, "protected-resource list unavailable"))
			continue
		}
		if _, protected := ctx.Data.ProtectedVolumeIDs[v.VolumeID]; protected {
			results = append(results, result(ctx, VolumeBackupPlanID, v.VolumeID,
				models.ResourceVolume, models.OutcomePass, ""))
		} else {
			results = append(results, result(ctx, VolumeBackupPlanID, v.VolumeID,
				models.ResourceVolume, models.OutcomeFail, "volume is not protected by any backup plan"))
		}
	}
	return results
}

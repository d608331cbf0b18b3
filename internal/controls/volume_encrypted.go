package controls

import "github.com/cloudhygiene/ebsguard/internal/models"

const VolumeEncryptedID = "VOL_ENCRYPTED"

// VolumeEncryptedControl checks that a volume is encrypted at rest.
type VolumeEncryptedControl struct{}

func (VolumeEncryptedControl) ID() string   { return VolumeEncryptedID }
func (VolumeEncryptedControl) Name() string { return "Volume Encrypted" }

func (c VolumeEncryptedControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, VolumeEncryptedID, models.ResourceVolume)
	}
	vols, found := targetVolumes(ctx)
	if !found {
		return []models.ControlResult{result(ctx, VolumeEncryptedID, ctx.Target,
			models.ResourceVolume, models.OutcomeError, "volume not found")}
	}

	var results []models.ControlResult
	for _, v := range vols {
		if v.Encrypted {
			results = append(results, result(ctx, VolumeEncryptedID, v.VolumeID,
				models.ResourceVolume, models.OutcomePass, ""))
		} else {
			results = append(results, result(ctx, VolumeEncryptedID, v.VolumeID,
				models.ResourceVolume, models.OutcomeFail, "volume is not encrypted at rest"))
		}
	}
	return results
}

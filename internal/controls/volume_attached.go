package controls

import (
	"fmt"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

const VolumeAttachedID = "VOL_ATTACHED"

// VolumeAttachedControl checks that a volume's primary attachment state is
// exactly "attached". Any other state, including "attaching", fails.
type VolumeAttachedControl struct{}

func (VolumeAttachedControl) ID() string   { return VolumeAttachedID }
func (VolumeAttachedControl) Name() string { return "Volume Attached" }

func (c VolumeAttachedControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, VolumeAttachedID, models.ResourceVolume)
	}
	vols, found := targetVolumes(ctx)
	if !found {
		return []models.ControlResult{result(ctx, VolumeAttachedID, ctx.Target,
			models.ResourceVolume, models.OutcomeError, "volume not found")}
	}

	var results []models.ControlResult
	for _, v := range vols {
		if v.Attached() {
			results = append(results, result(ctx, VolumeAttachedID, v.VolumeID,
				models.ResourceVolume, models.OutcomePass, ""))
			continue
		}
		reason := "volume has no attachment"
		if v.AttachmentState != "" {
			reason = fmt.Sprintf("attachment state is %q, not \"attached\"", v.AttachmentState)
		}
		results = append(results, result(ctx, VolumeAttachedID, v.VolumeID,
			models.ResourceVolume, models.OutcomeFail, reason))
	}
	return results
}

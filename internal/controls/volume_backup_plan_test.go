package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestVolumeBackupPlanControl_ID(t *testing.T) {
	c := VolumeBackupPlanControl{}
	if c.ID() != "VOL_BACKUP_PLAN" {
		t.Errorf("expected VOL_BACKUP_PLAN, got %s", c.ID())
	}
}

func TestVolumeBackupPlanControl_Protected_Pass(t *testing.T) {
	c := VolumeBackupPlanControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region:             "us-east-1",
			Volumes:            []models.EBSVolume{{VolumeID: "vol-1"}},
			ProtectedVolumeIDs: map[string]struct{}{"vol-1": {}},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomePass {
		t.Fatalf("expected 1 PASS result, got %+v", results)
	}
}

func TestVolumeBackupPlanControl_Unprotected_Fail(t *testing.T) {
	c := VolumeBackupPlanControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region:             "us-east-1",
			Volumes:            []models.EBSVolume{{VolumeID: "vol-1"}},
			ProtectedVolumeIDs: map[string]struct{}{},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeFail {
		t.Fatalf("expected 1 FAIL result, got %+v", results)
	}
}

func TestVolumeBackupPlanControl_ListUnavailable_Error(t *testing.T) {
	// nil set means the Backup API could not be queried. An empty set means
	// it answered with zero protected resources. Only the former is ERROR.
	c := VolumeBackupPlanControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region:             "us-east-1",
			Volumes:            []models.EBSVolume{{VolumeID: "vol-1"}},
			ProtectedVolumeIDs: nil,
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeError {
		t.Fatalf("expected 1 ERROR result, got %+v", results)
	}
}

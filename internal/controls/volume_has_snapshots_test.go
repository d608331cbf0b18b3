package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestVolumeHasSnapshotsControl_ID(t *testing.T) {
	c := VolumeHasSnapshotsControl{}
	if c.ID() != "VOL_HAS_SNAPSHOTS" {
		t.Errorf("expected VOL_HAS_SNAPSHOTS, got %s", c.ID())
	}
}

func TestVolumeHasSnapshotsControl_HasSnapshot_Pass(t *testing.T) {
	c := VolumeHasSnapshotsControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region:    "us-east-1",
			Volumes:   []models.EBSVolume{{VolumeID: "vol-1"}},
			Snapshots: []models.EBSSnapshot{{SnapshotID: "snap-1", VolumeID: "vol-1"}},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomePass {
		t.Fatalf("expected 1 PASS result, got %+v", results)
	}
}

func TestVolumeHasSnapshotsControl_NoSnapshots_Fail(t *testing.T) {
	c := VolumeHasSnapshotsControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region:    "us-east-1",
			Volumes:   []models.EBSVolume{{VolumeID: "vol-1"}},
			Snapshots: []models.EBSSnapshot{{SnapshotID: "snap-x", VolumeID: "vol-other"}},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeFail {
		t.Fatalf("expected 1 FAIL result, got %+v", results)
	}
}

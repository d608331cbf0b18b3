package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestSnapshotSourceAttachedControl_ID(t *testing.T) {
	c := SnapshotSourceAttachedControl{}
	if c.ID() != "SNAP_SOURCE_ATTACHED" {
		t.Errorf("expected SNAP_SOURCE_ATTACHED, got %s", c.ID())
	}
}

func TestSnapshotSourceAttachedControl_SourceAttached_Pass(t *testing.T) {
	c := SnapshotSourceAttachedControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Volumes: []models.EBSVolume{
				{VolumeID: "vol-1", AttachmentState: "attached"},
			},
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-1", VolumeID: "vol-1"},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomePass {
		t.Fatalf("expected 1 PASS result, got %+v", results)
	}
}

func TestSnapshotSourceAttachedControl_SourceUnattached_Fail(t *testing.T) {
	c := SnapshotSourceAttachedControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Volumes: []models.EBSVolume{
				{VolumeID: "vol-1", State: "available"},
			},
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-1", VolumeID: "vol-1"},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeFail {
		t.Fatalf("expected 1 FAIL result, got %+v", results)
	}
}

func TestSnapshotSourceAttachedControl_SourceGone_Error(t *testing.T) {
	c := SnapshotSourceAttachedControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-1", VolumeID: "vol-deleted"},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeError {
		t.Fatalf("expected 1 ERROR result, got %+v", results)
	}
}

func TestSnapshotSourceAttachedControl_EmptyVolumeID_Error(t *testing.T) {
	c := SnapshotSourceAttachedControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-novol"},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeError {
		t.Fatalf("expected 1 ERROR result, got %+v", results)
	}
}

package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestSnapshotNotPublicControl_ID(t *testing.T) {
	c := SnapshotNotPublicControl{}
	if c.ID() != "SNAP_NOT_PUBLIC" {
		t.Errorf("expected SNAP_NOT_PUBLIC, got %s", c.ID())
	}
}

func TestSnapshotNotPublicControl_NoGrants_Pass(t *testing.T) {
	c := SnapshotNotPublicControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-1", PermissionsKnown: true},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomePass {
		t.Fatalf("expected 1 PASS result, got %+v", results)
	}
}

func TestSnapshotNotPublicControl_PublicGrant_Fail(t *testing.T) {
	c := SnapshotNotPublicControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{
					SnapshotID:              "snap-pub",
					PermissionsKnown:        true,
					CreateVolumePermissions: []string{"all"},
				},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeFail {
		t.Fatalf("expected 1 FAIL result, got %+v", results)
	}
}

func TestSnapshotNotPublicControl_AccountGrant_Fail(t *testing.T) {
	// Sharing with a specific account is as non-compliant as the "all" group.
	c := SnapshotNotPublicControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{
					SnapshotID:              "snap-shared",
					PermissionsKnown:        true,
					CreateVolumePermissions: []string{"999999999999"},
				},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeFail {
		t.Fatalf("expected 1 FAIL result, got %+v", results)
	}
}

func TestSnapshotNotPublicControl_PermissionsUnknown_Error(t *testing.T) {
	c := SnapshotNotPublicControl{}
	ctx := ControlContext{
		Data: &models.RegionData{
			Region: "us-east-1",
			Snapshots: []models.EBSSnapshot{
				{SnapshotID: "snap-unk", PermissionsKnown: false},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeError {
		t.Fatalf("expected 1 ERROR result, got %+v", results)
	}
}

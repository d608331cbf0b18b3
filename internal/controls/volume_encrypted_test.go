package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestVolumeEncryptedControl_ID(t *testing.T) {
	c := VolumeEncryptedControl{}
	if c.ID() != "VOL_ENCRYPTED" {
		t.Errorf("expected VOL_ENCRYPTED, got %s", c.ID())
	}
}

func TestVolumeEncryptedControl_MixedFleet(t *testing.T) {
	c := VolumeEncryptedControl{}
	ctx := ControlContext{
		AccountID: "123456789012",
		Data: &models.RegionData{
			Region: "us-east-1",
			Volumes: []models.EBSVolume{
				{VolumeID: "vol-enc", Encrypted: true},
				{VolumeID: "vol-plain", Encrypted: false},
			},
		},
	}
	results := c.Evaluate(ctx)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	outcomes := map[string]models.Outcome{}
	for _, r := range results {
		outcomes[r.ResourceID] = r.Outcome
	}
	if outcomes["vol-enc"] != models.OutcomePass {
		t.Errorf("expected PASS for vol-enc, got %s", outcomes["vol-enc"])
	}
	if outcomes["vol-plain"] != models.OutcomeFail {
		t.Errorf("expected FAIL for vol-plain, got %s", outcomes["vol-plain"])
	}
}

func TestVolumeEncryptedControl_TargetNotFound_Error(t *testing.T) {
	c := VolumeEncryptedControl{}
	ctx := ControlContext{
		Data:   &models.RegionData{Region: "us-east-1"},
		Target: "vol-nope",
	}
	results := c.Evaluate(ctx)
	if len(results) != 1 || results[0].Outcome != models.OutcomeError {
		t.Fatalf("expected 1 ERROR result, got %+v", results)
	}
}

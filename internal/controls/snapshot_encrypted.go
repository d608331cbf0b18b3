package controls

import "github.com/cloudhygiene/ebsguard/internal/models"

const SnapshotEncryptedID = "SNAP_ENCRYPTED"

// SnapshotEncryptedControl checks that a snapshot is encrypted.
type SnapshotEncryptedControl struct{}

func (SnapshotEncryptedControl) ID() string   { return SnapshotEncryptedID }
func (SnapshotEncryptedControl) Name() string { return "Snapshot Encrypted" }

func (c SnapshotEncryptedControl) Evaluate(ctx ControlContext) []models.ControlResult {
	if ctx.Data == nil {
		return missingData(ctx, SnapshotEncryptedID, models.ResourceSnapshot)
	}
	snaps, found := targetSnapshots(ctx)
	if !found {
		return []models.ControlResult{result(ctx, SnapshotEncryptedID, ctx.Target,
			models.ResourceSnapshot, models.OutcomeError, "snapshot not found")}
	}

	var results []models.ControlResult
	for _, s := range snaps {
		if s.Encrypted {
			results = append(results, result(ctx, SnapshotEncryptedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomePass, ""))
		} else {
			results = append(results, result(ctx, SnapshotEncryptedID, s.SnapshotID,
				models.ResourceSnapshot, models.OutcomeFail, "snapshot is not encrypted"))
		}
	}
	return results
}

// Package audit implements the single-volume auditor, the fleet auditor, and
// the orphaned-snapshot validator.
package audit

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"

	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/ebs"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

// VolumeAuditor audits one volume at a time. Each provider read is wrapped
// in the bounded retry policy and degrades independently: a read that still
// fails after retries leaves its fields unknown instead of failing the whole
// record.
type VolumeAuditor struct {
	Collector ebs.Collector
	Retry     retry.Config
}

// Audit builds the compliance record for a single volume. A volume that does
// not exist yields an all-unknown record; the condition is logged as an error
// but does not abort a surrounding fleet run.
func (a *VolumeAuditor) Audit(ctx context.Context, cfg aws.Config, region, volumeID string) models.VolumeAuditRecord {
	rec := models.VolumeAuditRecord{VolumeID: volumeID}

	var vol models.EBSVolume
	volErr := retry.Do(ctx, a.Retry, func(ctx context.Context) error {
		v, err := a.Collector.DescribeVolume(ctx, cfg, region, volumeID)
		if errors.Is(err, ebs.ErrNotFound) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		vol = v
		return nil
	})
	switch {
	case errors.Is(volErr, ebs.ErrNotFound):
		log.Error().
			Str("volume_id", volumeID).
			Str("region", region).
			Msg("volume does not exist; record is indeterminate")
		return rec
	case volErr != nil:
		log.Warn().Err(volErr).
			Str("volume_id", volumeID).
			Msg("volume describe failed after retries; attachment fields unknown")
	default:
		rec.Attached = models.TriFromBool(vol.Attached())
		rec.Encrypted = models.TriFromBool(vol.Encrypted)
		rec.DeleteOnTermination = vol.DeleteOnTermination
	}

	var protected map[string]struct{}
	backupErr := retry.Do(ctx, a.Retry, func(ctx context.Context) error {
		p, err := a.Collector.ProtectedVolumeIDs(ctx, cfg)
		if err != nil {
			return err
		}
		protected = p
		return nil
	})
	if backupErr != nil {
		log.Warn().Err(backupErr).
			Str("volume_id", volumeID).
			Msg("backup-plan lookup failed after retries; field unknown")
	} else {
		_, inPlan := protected[volumeID]
		rec.BackupPlan = models.TriFromBool(inPlan)
	}

	var snapCount int
	snapErr := retry.Do(ctx, a.Retry, func(ctx context.Context) error {
		n, err := a.Collector.CountSnapshots(ctx, cfg, volumeID)
		if err != nil {
			return err
		}
		snapCount = n
		return nil
	})
	if snapErr != nil {
		log.Warn().Err(snapErr).
			Str("volume_id", volumeID).
			Msg("snapshot count failed after retries; field unknown")
	} else {
		rec.HasSnapshots = models.TriFromBool(snapCount > 0)
	}

	log.Info().
		Str("volume_id", volumeID).
		Str("region", region).
		Stringer("attached", rec.Attached).
		Stringer("encrypted", rec.Encrypted).
		Stringer("delete_on_termination", rec.DeleteOnTermination).
		Stringer("backup_plan", rec.BackupPlan).
		Stringer("has_snapshots", rec.HasSnapshots).
		Msg("volume audit complete")
	return rec
}

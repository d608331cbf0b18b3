package audit

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"

	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/ebs"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

// OrphanValidator finds self-owned snapshots whose source volume no longer
// exists.
type OrphanValidator struct {
	Collector ebs.Collector
	Retry     retry.Config
}

// Validate lists every self-owned snapshot in the region, batch-resolves the
// recorded source volume IDs against existing volumes, and classifies each
// snapshot. A snapshot with no recorded source volume ID cannot be resolved
// either way and is reported as indeterminate rather than orphaned.
func (v *OrphanValidator) Validate(ctx context.Context, cfg aws.Config, region string) (models.OrphanReport, error) {
	report := models.OrphanReport{Region: region}

	var data *models.RegionData
	err := retry.Do(ctx, v.Retry, func(ctx context.Context) error {
		d, err := v.Collector.CollectRegion(ctx, cfg, ebs.CollectOptions{Region: region})
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("collecting snapshots in %s: %w", region, err)
	}

	idSet := map[string]struct{}{}
	for _, s := range data.Snapshots {
		if s.VolumeID == "" {
			report.Indeterminate = append(report.Indeterminate, s.SnapshotID)
			continue
		}
		idSet[s.VolumeID] = struct{}{}
	}
	if len(idSet) == 0 {
		return report, nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var exists map[string]bool
	err = retry.Do(ctx, v.Retry, func(ctx context.Context) error {
		m, err := v.Collector.FilterExistingVolumes(ctx, cfg, ids)
		if err != nil {
			return err
		}
		exists = m
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("resolving source volumes in %s: %w", region, err)
	}

	for _, s := range data.Snapshots {
		if s.VolumeID == "" {
			continue
		}
		if !exists[s.VolumeID] {
			report.Orphaned = append(report.Orphaned, s.SnapshotID)
		}
	}

	log.Info().
		Str("region", region).
		Int("snapshots", len(data.Snapshots)).
		Int("orphaned", len(report.Orphaned)).
		Int("indeterminate", len(report.Indeterminate)).
		Msg("orphaned-snapshot validation complete")
	return report, nil
}

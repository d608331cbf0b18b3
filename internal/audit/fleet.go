package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

// DefaultWorkers is the parallel fleet audit pool size.
const DefaultWorkers = 4

// FleetAuditor audits every volume in a region and writes the report file.
type FleetAuditor struct {
	Volume *VolumeAuditor

	// Workers bounds the parallel audit pool. Zero means DefaultWorkers.
	Workers int
}

// Audit enumerates all volumes in the region and audits each one. With
// parallel set, a bounded worker pool audits volumes concurrently; each
// worker writes into its pre-assigned slot, so record order always equals
// enumeration order and sequential and parallel runs produce identical
// output.
func (f *FleetAuditor) Audit(ctx context.Context, cfg aws.Config, region string, parallel bool) ([]models.VolumeAuditRecord, error) {
	var ids []string
	err := retry.Do(ctx, f.Volume.Retry, func(ctx context.Context) error {
		listed, err := f.Volume.Collector.ListVolumeIDs(ctx, cfg, region)
		if err != nil {
			return err
		}
		ids = listed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing volumes in %s: %w", region, err)
	}

	log.Info().
		Str("region", region).
		Int("volumes", len(ids)).
		Bool("parallel", parallel).
		Msg("starting fleet audit")

	records := make([]models.VolumeAuditRecord, len(ids))
	if !parallel {
		for i, id := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = f.Volume.Audit(ctx, cfg, region, id)
		}
		return records, nil
	}

	workers := f.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()
			records[i] = f.Volume.Audit(gctx, cfg, region, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteReport truncates and rewrites the report file with the given records
// as a single indented JSON array. The file is marshalled in one shot by one
// writer; workers never touch it.
func WriteReport(path string, records []models.VolumeAuditRecord) error {
	if records == nil {
		records = []models.VolumeAuditRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling audit report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing audit report %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("records", len(records)).Msg("audit report written")
	return nil
}

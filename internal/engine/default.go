package engine

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"

	"github.com/cloudhygiene/ebsguard/internal/audit"
	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/common"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/ebs"
	"github.com/cloudhygiene/ebsguard/internal/remediation"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

// ControlEngine implements Engine. It collects one region's EBS data through
// the collector, evaluates the selected controls against it, applies
// remediation for failed remediable controls when requested, and assembles
// the report. It never touches the AWS SDK itself.
type ControlEngine struct {
	provider   common.AWSClientProvider
	collector  ebs.Collector
	registry   controls.Registry
	remediator remediation.Remediator
	retry      retry.Config
}

// NewControlEngine wires a ControlEngine to the supplied provider,
// collector, registry, and remediator.
func NewControlEngine(
	provider common.AWSClientProvider,
	collector ebs.Collector,
	registry controls.Registry,
	remediator remediation.Remediator,
	retryCfg retry.Config,
) *ControlEngine {
	return &ControlEngine{
		provider:   provider,
		collector:  collector,
		registry:   registry,
		remediator: remediator,
		retry:      retryCfg,
	}
}

// RunControls implements Engine.
func (e *ControlEngine) RunControls(ctx context.Context, opts RunOptions) (*models.AuditReport, error) {
	profile, err := e.provider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}

	region := opts.Region
	if region == "" {
		region = profile.Region
	}
	cfg := e.provider.ConfigForRegion(profile, region)

	selected, err := e.selectControls(opts.Controls)
	if err != nil {
		return nil, err
	}

	// Snapshot permission reads cost one API call per snapshot; only pay
	// for them when the sharing control is part of this run.
	needPermissions := false
	for _, c := range selected {
		if c.ID() == controls.SnapshotNotPublicID {
			needPermissions = true
		}
	}

	var data *models.RegionData
	err = retry.Do(ctx, e.retry, func(ctx context.Context) error {
		d, err := e.collector.CollectRegion(ctx, cfg, ebs.CollectOptions{
			Region:                     region,
			AccountID:                  profile.AccountID,
			Profile:                    profile.ProfileName,
			IncludeSnapshotPermissions: needPermissions,
		})
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect region %s: %w", region, err)
	}

	cctx := controls.ControlContext{
		AccountID: profile.AccountID,
		Profile:   profile.ProfileName,
		Data:      data,
		Target:    opts.Target,
	}
	var results []models.ControlResult
	for _, c := range selected {
		results = append(results, c.Evaluate(cctx)...)
	}

	if opts.Remediate {
		e.remediate(ctx, cfg, data, results)
	}

	report := audit.NewReport(profile.AccountID, profile.ProfileName, region)
	report.Results = results
	report.Summary = audit.Summarize(results, nil)
	return report, nil
}

// selectControls resolves the requested control IDs against the registry.
// An empty request selects every registered control.
func (e *ControlEngine) selectControls(ids []string) ([]controls.Control, error) {
	if len(ids) == 0 {
		return e.registry.All(), nil
	}
	var selected []controls.Control
	for _, id := range ids {
		c, ok := e.registry.ByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown control: %q", id)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// remediate applies the automatic fix for each failed remediable result,
// mutating the result's Remediated flag in place. Remediation failures are
// logged and leave the result unremediated; they never abort the run.
func (e *ControlEngine) remediate(ctx context.Context, cfg aws.Config, data *models.RegionData, results []models.ControlResult) {
	for i := range results {
		r := &results[i]
		if r.Outcome != models.OutcomeFail {
			continue
		}
		vol, ok := data.VolumeByID(r.ResourceID)
		if !ok {
			continue
		}
		switch r.ControlID {
		case controls.VolumeAttachedID:
			if err := e.remediator.EnableDeleteOnTermination(ctx, cfg, vol); err != nil {
				log.Error().Err(err).
					Str("volume_id", vol.VolumeID).
					Msg("delete-on-termination remediation failed")
				continue
			}
			r.Remediated = true
		case controls.VolumeEncryptedID:
			res, err := e.remediator.EncryptVolume(ctx, cfg, vol)
			if err != nil {
				log.Error().Err(err).
					Str("volume_id", vol.VolumeID).
					Str("snapshot_id", res.SnapshotID).
					Msg("encrypt remediation failed")
				continue
			}
			r.Remediated = true
		}
	}
}

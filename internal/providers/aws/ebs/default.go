package ebs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// DefaultCollector is the production implementation of Collector.
// It uses AWS SDK v2 to collect EBS volumes, snapshots, Backup protected
// resources, and the account encryption-by-default flag.
//
// Inject a custom ebsClientFactory via NewDefaultCollectorWithFactory to
// replace real SDK clients with mocks in unit tests.
type DefaultCollector struct {
	factory ebsClientFactory
}

// NewDefaultCollector returns a collector backed by the real AWS SDK.
func NewDefaultCollector() *DefaultCollector {
	return &DefaultCollector{factory: newDefaultEBSClients}
}

// NewDefaultCollectorWithFactory returns a collector that uses f to create
// its service clients. Pass a mock factory in tests.
func NewDefaultCollectorWithFactory(f ebsClientFactory) *DefaultCollector {
	return &DefaultCollector{factory: f}
}

// CollectRegion gathers volumes, self-owned snapshots, the Backup
// protected-resource set, and the account encryption-by-default flag for a
// single region.
//
// Volume and snapshot failures are fatal: without them no control can run.
// Backup and account-flag failures are non-fatal: ProtectedVolumeIDs stays
// nil and DefaultEncryption stays unknown, so the dependent controls report
// ERROR rather than a fabricated FAIL.
func (d *DefaultCollector) CollectRegion(ctx context.Context, cfg aws.Config, opts CollectOptions) (*models.RegionData, error) {
	clients := d.factory(cfg)
	rd := &models.RegionData{
		Region:            opts.Region,
		DefaultEncryption: models.Unknown,
	}

	var err error

	rd.Volumes, err = collectVolumes(ctx, clients.EC2, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("collect EBS volumes in %s: %w", opts.Region, err)
	}

	rd.Snapshots, err = collectSnapshots(ctx, clients.EC2, opts.Region, opts.IncludeSnapshotPermissions)
	if err != nil {
		return nil, fmt.Errorf("collect EBS snapshots in %s: %w", opts.Region, err)
	}

	if protected, backupErr := collectProtectedVolumeIDs(ctx, clients.Backup); backupErr == nil {
		rd.ProtectedVolumeIDs = protected
	}

	if out, encErr := clients.EC2.GetEbsEncryptionByDefault(ctx, &ec2svc.GetEbsEncryptionByDefaultInput{}); encErr == nil {
		rd.DefaultEncryption = models.TriFromBoolPtr(out.EbsEncryptionByDefault)
	}

	return rd, nil
}

// ListVolumeIDs returns the IDs of every non-deleted volume in the region in
// provider enumeration order.
func (d *DefaultCollector) ListVolumeIDs(ctx context.Context, cfg aws.Config, region string) ([]string, error) {
	clients := d.factory(cfg)
	volumes, err := collectVolumes(ctx, clients.EC2, region)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(volumes))
	for _, v := range volumes {
		ids = append(ids, v.VolumeID)
	}
	return ids, nil
}

// DescribeVolume implements Collector.
func (d *DefaultCollector) DescribeVolume(ctx context.Context, cfg aws.Config, region, volumeID string) (models.EBSVolume, error) {
	return describeVolume(ctx, d.factory(cfg).EC2, region, volumeID)
}

// DescribeSnapshot implements Collector.
func (d *DefaultCollector) DescribeSnapshot(ctx context.Context, cfg aws.Config, region, snapshotID string) (models.EBSSnapshot, error) {
	return describeSnapshot(ctx, d.factory(cfg).EC2, region, snapshotID)
}

// CountSnapshots implements Collector.
func (d *DefaultCollector) CountSnapshots(ctx context.Context, cfg aws.Config, volumeID string) (int, error) {
	return countSnapshots(ctx, d.factory(cfg).EC2, volumeID)
}

// ProtectedVolumeIDs implements Collector.
func (d *DefaultCollector) ProtectedVolumeIDs(ctx context.Context, cfg aws.Config) (map[string]struct{}, error) {
	return collectProtectedVolumeIDs(ctx, d.factory(cfg).Backup)
}

// EncryptionByDefault implements Collector.
func (d *DefaultCollector) EncryptionByDefault(ctx context.Context, cfg aws.Config) (bool, error) {
	out, err := d.factory(cfg).EC2.GetEbsEncryptionByDefault(ctx, &ec2svc.GetEbsEncryptionByDefaultInput{})
	if err != nil {
		return false, fmt.Errorf("GetEbsEncryptionByDefault: %w", err)
	}
	return aws.ToBool(out.EbsEncryptionByDefault), nil
}

// FilterExistingVolumes implements Collector.
func (d *DefaultCollector) FilterExistingVolumes(ctx context.Context, cfg aws.Config, ids []string) (map[string]bool, error) {
	return filterExistingVolumes(ctx, d.factory(cfg).EC2, ids)
}

package ebs

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// ErrNotFound is returned by the point-lookup methods when the requested
// volume or snapshot does not exist in the target region. Callers classify
// this as an ERROR outcome, never as non-compliance.
var ErrNotFound = errors.New("resource not found")

// CollectOptions carries per-region collection parameters.
type CollectOptions struct {
	// Region is the AWS region to collect from.
	Region string

	// AccountID is the resolved AWS account ID.
	AccountID string

	// Profile is the AWS profile name used for this collection run.
	Profile string

	// IncludeSnapshotPermissions additionally fetches the
	// createVolumePermission attribute for every collected snapshot.
	// This costs one API call per snapshot; enable it only when the
	// public-restore control will run against the collected set.
	IncludeSnapshotPermissions bool
}

// Collector gathers raw EBS resource data from AWS and converts it into
// internal models. It must not apply compliance rules and must never mutate
// cloud state; remediation lives in the remediation package.
//
// All implementations must use the AWS SDK v2 only.
type Collector interface {
	// CollectRegion gathers all EBS-relevant data in a single region:
	// volumes, self-owned snapshots, the Backup protected-resource set, and
	// the account-level encryption-by-default flag. Backup and account-flag
	// failures are non-fatal: they leave ProtectedVolumeIDs nil and
	// DefaultEncryption unknown so controls report ERROR instead of FAIL.
	CollectRegion(ctx context.Context, cfg aws.Config, opts CollectOptions) (*models.RegionData, error)

	// ListVolumeIDs returns the IDs of every non-deleted volume in the region,
	// in provider enumeration order.
	ListVolumeIDs(ctx context.Context, cfg aws.Config, region string) ([]string, error)

	// DescribeVolume fetches a single volume. Returns ErrNotFound when the
	// volume does not exist.
	DescribeVolume(ctx context.Context, cfg aws.Config, region, volumeID string) (models.EBSVolume, error)

	// DescribeSnapshot fetches a single snapshot including its
	// createVolumePermission attribute. Returns ErrNotFound when the snapshot
	// does not exist.
	DescribeSnapshot(ctx context.Context, cfg aws.Config, region, snapshotID string) (models.EBSSnapshot, error)

	// CountSnapshots returns the number of self-owned snapshots whose source
	// volume is volumeID.
	CountSnapshots(ctx context.Context, cfg aws.Config, volumeID string) (int, error)

	// ProtectedVolumeIDs returns the set of volume IDs present in the AWS
	// Backup protected-resource list.
	ProtectedVolumeIDs(ctx context.Context, cfg aws.Config) (map[string]struct{}, error)

	// EncryptionByDefault returns the account-level EBS
	// encryption-by-default flag.
	EncryptionByDefault(ctx context.Context, cfg aws.Config) (bool, error)

	// FilterExistingVolumes reports, for each candidate ID, whether the
	// volume currently exists. Lookup is filter-based so missing IDs do not
	// fail the call.
	FilterExistingVolumes(ctx context.Context, cfg aws.Config, ids []string) (map[string]bool, error)
}

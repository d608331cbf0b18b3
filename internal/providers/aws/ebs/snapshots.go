package ebs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// collectSnapshots pages through all snapshots owned by the caller and
// converts them to internal models. When withPermissions is true the
// createVolumePermission attribute is fetched per snapshot; attribute
// failures are non-fatal and leave PermissionsKnown false.
func collectSnapshots(ctx context.Context, client ebsEC2Client, region string, withPermissions bool) ([]models.EBSSnapshot, error) {
	input := &ec2svc.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	}

	paginator := ec2svc.NewDescribeSnapshotsPaginator(client, input)

	var snapshots []models.EBSSnapshot
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeSnapshots page: %w", err)
		}
		for _, s := range page.Snapshots {
			snap := toEBSSnapshot(s, region)
			if withPermissions {
				perms, permErr := fetchCreateVolumePermissions(ctx, client, snap.SnapshotID)
				if permErr == nil {
					snap.CreateVolumePermissions = perms
					snap.PermissionsKnown = true
				}
			}
			snapshots = append(snapshots, snap)
		}
	}
	return snapshots, nil
}

// describeSnapshot fetches one snapshot by ID, including its
// createVolumePermission attribute. A provider-side
// InvalidSnapshot.NotFound is mapped to ErrNotFound.
func describeSnapshot(ctx context.Context, client ebsEC2Client, region, snapshotID string) (models.EBSSnapshot, error) {
	out, err := client.DescribeSnapshots(ctx, &ec2svc.DescribeSnapshotsInput{
		SnapshotIds: []string{snapshotID},
	})
	if err != nil {
		if isNotFound(err) {
			return models.EBSSnapshot{}, fmt.Errorf("snapshot %s: %w", snapshotID, ErrNotFound)
		}
		return models.EBSSnapshot{}, fmt.Errorf("DescribeSnapshots %s: %w", snapshotID, err)
	}
	if len(out.Snapshots) == 0 {
		return models.EBSSnapshot{}, fmt.Errorf("snapshot %s: %w", snapshotID, ErrNotFound)
	}

	snap := toEBSSnapshot(out.Snapshots[0], region)
	perms, permErr := fetchCreateVolumePermissions(ctx, client, snapshotID)
	if permErr == nil {
		snap.CreateVolumePermissions = perms
		snap.PermissionsKnown = true
	}
	return snap, nil
}

// countSnapshots returns the number of self-owned snapshots sourced from
// volumeID.
func countSnapshots(ctx context.Context, client ebsEC2Client, volumeID string) (int, error) {
	input := &ec2svc.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("volume-id"),
				Values: []string{volumeID},
			},
		},
	}

	paginator := ec2svc.NewDescribeSnapshotsPaginator(client, input)

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("DescribeSnapshots for volume %s: %w", volumeID, err)
		}
		count += len(page.Snapshots)
	}
	return count, nil
}

// fetchCreateVolumePermissions returns every grantee of the snapshot's
// createVolumePermission attribute: group names (e.g. "all") and account IDs.
func fetchCreateVolumePermissions(ctx context.Context, client ebsEC2Client, snapshotID string) ([]string, error) {
	out, err := client.DescribeSnapshotAttribute(ctx, &ec2svc.DescribeSnapshotAttributeInput{
		Attribute:  ec2types.SnapshotAttributeNameCreateVolumePermission,
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		return nil, fmt.Errorf("DescribeSnapshotAttribute %s: %w", snapshotID, err)
	}

	var grantees []string
	for _, p := range out.CreateVolumePermissions {
		if p.Group != "" {
			grantees = append(grantees, string(p.Group))
			continue
		}
		if p.UserId != nil {
			grantees = append(grantees, aws.ToString(p.UserId))
		}
	}
	return grantees, nil
}

// toEBSSnapshot converts an SDK snapshot to the internal model.
// CreateVolumePermissions is left unpopulated; callers fetch it separately.
func toEBSSnapshot(s ec2types.Snapshot, region string) models.EBSSnapshot {
	return models.EBSSnapshot{
		SnapshotID: aws.ToString(s.SnapshotId),
		Region:     region,
		VolumeID:   aws.ToString(s.VolumeId),
		State:      string(s.State),
		Encrypted:  aws.ToBool(s.Encrypted),
		StartTime:  aws.ToTime(s.StartTime),
	}
}

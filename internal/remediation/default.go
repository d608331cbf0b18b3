package remediation

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog/log"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// DefaultRemediator implements Remediator against the real EC2 API.
type DefaultRemediator struct {
	factory      mutationClientFactory
	snapshotWait time.Duration
	volumeWait   time.Duration

	// waiter hooks, replaceable in tests so polling never sleeps
	waitSnapshotCompleted func(ctx context.Context, client ec2MutationClient, snapshotID string, maxWait time.Duration) error
	waitVolumeAvailable   func(ctx context.Context, client ec2MutationClient, volumeID string, maxWait time.Duration) error
}

// NewDefaultRemediator returns a remediator using the real EC2 client and
// SDK waiters with the default wait bounds.
func NewDefaultRemediator() *DefaultRemediator {
	return NewDefaultRemediatorWithFactory(newDefaultMutationClient)
}

// NewDefaultRemediatorWithFactory allows injecting a custom client factory.
func NewDefaultRemediatorWithFactory(factory mutationClientFactory) *DefaultRemediator {
	return &DefaultRemediator{
		factory:               factory,
		snapshotWait:          DefaultSnapshotWait,
		volumeWait:            DefaultVolumeWait,
		waitSnapshotCompleted: waitSnapshotCompletedSDK,
		waitVolumeAvailable:   waitVolumeAvailableSDK,
	}
}

// EnableDeleteOnTermination flips delete-on-termination to true for the
// volume's device on its attached instance.
func (r *DefaultRemediator) EnableDeleteOnTermination(ctx context.Context, cfg aws.Config, vol models.EBSVolume) error {
	if !vol.Attached() || vol.InstanceID == "" || vol.Device == "" {
		return fmt.Errorf("volume %s is not attached, cannot set delete-on-termination", vol.VolumeID)
	}

	client := r.factory(cfg)
	_, err := client.ModifyInstanceAttribute(ctx, &ec2.ModifyInstanceAttributeInput{
		InstanceId: aws.String(vol.InstanceID),
		BlockDeviceMappings: []ec2types.InstanceBlockDeviceMappingSpecification{
			{
				DeviceName: aws.String(vol.Device),
				Ebs: &ec2types.EbsInstanceBlockDeviceSpecification{
					DeleteOnTermination: aws.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("modifying instance %s attribute for %s: %w", vol.InstanceID, vol.VolumeID, err)
	}

	log.Info().
		Str("volume_id", vol.VolumeID).
		Str("instance_id", vol.InstanceID).
		Str("device", vol.Device).
		Msg("delete-on-termination enabled")
	return nil
}

// EncryptVolume produces an encrypted copy of an unencrypted volume:
// snapshot the source, wait for completion, restore the snapshot into a new
// encrypted volume in the same AZ, wait until it is available. Before
// creating a snapshot it looks for one tagged by an earlier attempt so that
// a rerun resumes instead of duplicating work.
func (r *DefaultRemediator) EncryptVolume(ctx context.Context, cfg aws.Config, vol models.EBSVolume) (EncryptResult, error) {
	if vol.Encrypted {
		return EncryptResult{}, fmt.Errorf("volume %s is already encrypted", vol.VolumeID)
	}
	if vol.AvailabilityZone == "" {
		return EncryptResult{}, fmt.Errorf("volume %s has no availability zone recorded", vol.VolumeID)
	}

	client := r.factory(cfg)
	res := EncryptResult{}

	snapshotID, reused, err := r.ensureRemediationSnapshot(ctx, client, vol)
	if err != nil {
		return res, err
	}
	res.SnapshotID = snapshotID
	res.ReusedSnapshot = reused

	log.Info().
		Str("volume_id", vol.VolumeID).
		Str("snapshot_id", snapshotID).
		Bool("reused", reused).
		Msg("waiting for remediation snapshot to complete")
	if err := r.waitSnapshotCompleted(ctx, client, snapshotID, r.snapshotWait); err != nil {
		return res, fmt.Errorf("waiting for snapshot %s: %w", snapshotID, err)
	}

	volumeType := ec2types.VolumeType(vol.VolumeType)
	if volumeType == "" {
		volumeType = ec2types.VolumeTypeGp3
	}
	createOut, err := client.CreateVolume(ctx, &ec2.CreateVolumeInput{
		AvailabilityZone: aws.String(vol.AvailabilityZone),
		SnapshotId:       aws.String(snapshotID),
		Encrypted:        aws.Bool(true),
		VolumeType:       volumeType,
		Size:             aws.Int32(vol.SizeGB),
		// Deterministic token keyed on the snapshot, so a retried create
		// after a transport failure returns the same volume.
		ClientToken: aws.String("ebsguard-" + snapshotID),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeVolume,
				Tags: []ec2types.Tag{
					{Key: aws.String(RemediationTagKey), Value: aws.String(vol.VolumeID)},
				},
			},
		},
	})
	if err != nil {
		return res, fmt.Errorf("creating encrypted volume from %s: %w", snapshotID, err)
	}
	res.NewVolumeID = aws.ToString(createOut.VolumeId)

	log.Info().
		Str("volume_id", vol.VolumeID).
		Str("new_volume_id", res.NewVolumeID).
		Msg("waiting for encrypted volume to become available")
	if err := r.waitVolumeAvailable(ctx, client, res.NewVolumeID, r.volumeWait); err != nil {
		return res, fmt.Errorf("waiting for volume %s: %w", res.NewVolumeID, err)
	}

	log.Info().
		Str("volume_id", vol.VolumeID).
		Str("snapshot_id", res.SnapshotID).
		Str("new_volume_id", res.NewVolumeID).
		Msg("encrypted replacement volume ready; source volume left in place")
	return res, nil
}

// ensureRemediationSnapshot returns an existing remediation snapshot for the
// volume when one is pending or completed, otherwise creates a new one.
func (r *DefaultRemediator) ensureRemediationSnapshot(ctx context.Context, client ec2MutationClient, vol models.EBSVolume) (string, bool, error) {
	existing, err := client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + RemediationTagKey), Values: []string{vol.VolumeID}},
			{Name: aws.String("status"), Values: []string{"pending", "completed"}},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("reconciling remediation snapshots for %s: %w", vol.VolumeID, err)
	}
	if len(existing.Snapshots) > 0 {
		// Prefer the most recently started attempt.
		best := existing.Snapshots[0]
		for _, s := range existing.Snapshots[1:] {
			if s.StartTime != nil && (best.StartTime == nil || s.StartTime.After(*best.StartTime)) {
				best = s
			}
		}
		return aws.ToString(best.SnapshotId), true, nil
	}

	created, err := client.CreateSnapshot(ctx, &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(vol.VolumeID),
		Description: aws.String("ebsguard encryption remediation for " + vol.VolumeID),
		TagSpecifications: []ec2types.TagSpecification{
			{
				ResourceType: ec2types.ResourceTypeSnapshot,
				Tags: []ec2types.Tag{
					{Key: aws.String(RemediationTagKey), Value: aws.String(vol.VolumeID)},
				},
			},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("creating snapshot of %s: %w", vol.VolumeID, err)
	}
	return aws.ToString(created.SnapshotId), false, nil
}

func waitSnapshotCompletedSDK(ctx context.Context, client ec2MutationClient, snapshotID string, maxWait time.Duration) error {
	waiter := ec2.NewSnapshotCompletedWaiter(client)
	return waiter.Wait(ctx, &ec2.DescribeSnapshotsInput{
		SnapshotIds: []string{snapshotID},
	}, maxWait)
}

func waitVolumeAvailableSDK(ctx context.Context, client ec2MutationClient, volumeID string, maxWait time.Duration) error {
	waiter := ec2.NewVolumeAvailableWaiter(client)
	return waiter.Wait(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	}, maxWait)
}

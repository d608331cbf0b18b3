package ebs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// volumeExistsFilterChunk caps the number of values passed to a single
// volume-id filter. DescribeVolumes accepts up to 200 filter values.
const volumeExistsFilterChunk = 190

// collectVolumes pages through all non-deleted EBS volumes in region and
// converts them to internal models.
func collectVolumes(ctx context.Context, client ebsEC2Client, region string) ([]models.EBSVolume, error) {
	input := &ec2svc.DescribeVolumesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("status"),
				Values: []string{"available", "in-use", "creating", "error"},
			},
		},
	}

	paginator := ec2svc.NewDescribeVolumesPaginator(client, input)

	var volumes []models.EBSVolume
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVolumes page: %w", err)
		}
		for _, v := range page.Volumes {
			volumes = append(volumes, toEBSVolume(v, region))
		}
	}
	return volumes, nil
}

// describeVolume fetches one volume by ID. A provider-side
// InvalidVolume.NotFound is mapped to ErrNotFound.
func describeVolume(ctx context.Context, client ebsEC2Client, region, volumeID string) (models.EBSVolume, error) {
	out, err := client.DescribeVolumes(ctx, &ec2svc.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if err != nil {
		if isNotFound(err) {
			return models.EBSVolume{}, fmt.Errorf("volume %s: %w", volumeID, ErrNotFound)
		}
		return models.EBSVolume{}, fmt.Errorf("DescribeVolumes %s: %w", volumeID, err)
	}
	if len(out.Volumes) == 0 {
		return models.EBSVolume{}, fmt.Errorf("volume %s: %w", volumeID, ErrNotFound)
	}
	return toEBSVolume(out.Volumes[0], region), nil
}

// filterExistingVolumes reports existence per candidate ID. A volume-id
// filter is used instead of VolumeIds so that missing IDs match nothing
// rather than failing the whole call.
func filterExistingVolumes(ctx context.Context, client ebsEC2Client, ids []string) (map[string]bool, error) {
	exists := make(map[string]bool, len(ids))
	for _, id := range ids {
		exists[id] = false
	}

	for start := 0; start < len(ids); start += volumeExistsFilterChunk {
		end := start + volumeExistsFilterChunk
		if end > len(ids) {
			end = len(ids)
		}

		input := &ec2svc.DescribeVolumesInput{
			Filters: []ec2types.Filter{
				{
					Name:   aws.String("volume-id"),
					Values: ids[start:end],
				},
			},
		}
		paginator := ec2svc.NewDescribeVolumesPaginator(client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("DescribeVolumes existence page: %w", err)
			}
			for _, v := range page.Volumes {
				exists[aws.ToString(v.VolumeId)] = true
			}
		}
	}
	return exists, nil
}

// toEBSVolume converts an SDK EBS volume to the internal model. Attachment
// fields are derived from the first (primary) attachment, if any.
func toEBSVolume(v ec2types.Volume, region string) models.EBSVolume {
	vol := models.EBSVolume{
		VolumeID:            aws.ToString(v.VolumeId),
		Region:              region,
		AvailabilityZone:    aws.ToString(v.AvailabilityZone),
		VolumeType:          string(v.VolumeType),
		SizeGB:              aws.ToInt32(v.Size),
		State:               string(v.State),
		Encrypted:           aws.ToBool(v.Encrypted),
		Tags:                tagsFromEC2(v.Tags),
		DeleteOnTermination: models.Unknown,
	}

	if len(v.Attachments) > 0 {
		att := v.Attachments[0]
		vol.AttachmentState = string(att.State)
		vol.InstanceID = aws.ToString(att.InstanceId)
		vol.Device = aws.ToString(att.Device)
		vol.DeleteOnTermination = models.TriFromBoolPtr(att.DeleteOnTermination)
	}
	return vol
}

// tagsFromEC2 converts SDK tags into a plain map. Returns nil for empty input
// so the field is omitted from JSON.
func tagsFromEC2(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return m
}

// isNotFound reports whether err is a provider not-found response for a
// volume or snapshot lookup.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "InvalidVolume.NotFound", "InvalidSnapshot.NotFound":
		return true
	}
	return false
}

package ebs

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/backup"
)

// collectProtectedVolumeIDs pages through the AWS Backup protected-resource
// list and returns the set of EBS volume IDs it contains. Resources of other
// types (RDS, DynamoDB, ...) are skipped.
func collectProtectedVolumeIDs(ctx context.Context, client backupClient) (map[string]struct{}, error) {
	paginator := backup.NewListProtectedResourcesPaginator(client, &backup.ListProtectedResourcesInput{})

	protected := make(map[string]struct{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListProtectedResources page: %w", err)
		}
		for _, r := range page.Results {
			if id, ok := volumeIDFromARN(aws.ToString(r.ResourceArn)); ok {
				protected[id] = struct{}{}
			}
		}
	}
	return protected, nil
}

// volumeIDFromARN extracts the volume ID from an EBS resource ARN of the form
// arn:aws:ec2:<region>:<account>:volume/vol-xxxxxxxx.
func volumeIDFromARN(arn string) (string, bool) {
	idx := strings.LastIndex(arn, "volume/")
	if idx < 0 {
		return "", false
	}
	id := arn[idx+len("volume/"):]
	if !strings.HasPrefix(id, "vol-") {
		return "", false
	}
	return id, true
}

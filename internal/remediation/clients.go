package remediation

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// ec2MutationClient is the narrow slice of the EC2 API remediation needs.
// It deliberately includes the describe calls so SDK waiters can poll
// through the same client, fake included.
type ec2MutationClient interface {
	ModifyInstanceAttribute(ctx context.Context, params *ec2.ModifyInstanceAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyInstanceAttributeOutput, error)
	CreateSnapshot(ctx context.Context, params *ec2.CreateSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error)
	CreateVolume(ctx context.Context, params *ec2.CreateVolumeInput, optFns ...func(*ec2.Options)) (*ec2.CreateVolumeOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// mutationClientFactory builds the EC2 client for a resolved region config.
// Injectable so tests can substitute fakes.
type mutationClientFactory func(cfg aws.Config) ec2MutationClient

func newDefaultMutationClient(cfg aws.Config) ec2MutationClient {
	return ec2.NewFromConfig(cfg)
}

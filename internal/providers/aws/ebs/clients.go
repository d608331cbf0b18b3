package ebs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/backup"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
)

// ---------------------------------------------------------------------------
// Narrow client interfaces
//
// Each interface lists only the SDK operations used by this package.
// The real *ec2.Client and *backup.Client satisfy these automatically.
// Replace any field in ebsClients with a stub struct in unit tests.
// ---------------------------------------------------------------------------

// ebsEC2Client covers the read-only EC2 operations required for EBS
// collection. A single *ec2.Client satisfies all four methods; the describe
// methods also satisfy ec2.DescribeVolumesAPIClient and
// ec2.DescribeSnapshotsAPIClient, enabling SDK v2 paginators.
type ebsEC2Client interface {
	DescribeVolumes(
		ctx context.Context,
		params *ec2svc.DescribeVolumesInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeVolumesOutput, error)

	DescribeSnapshots(
		ctx context.Context,
		params *ec2svc.DescribeSnapshotsInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeSnapshotsOutput, error)

	DescribeSnapshotAttribute(
		ctx context.Context,
		params *ec2svc.DescribeSnapshotAttributeInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.DescribeSnapshotAttributeOutput, error)

	GetEbsEncryptionByDefault(
		ctx context.Context,
		params *ec2svc.GetEbsEncryptionByDefaultInput,
		optFns ...func(*ec2svc.Options),
	) (*ec2svc.GetEbsEncryptionByDefaultOutput, error)
}

// backupClient covers the AWS Backup operations required to resolve
// backup-plan membership. Satisfies backup.ListProtectedResourcesAPIClient
// for the SDK v2 paginator.
type backupClient interface {
	ListProtectedResources(
		ctx context.Context,
		params *backup.ListProtectedResourcesInput,
		optFns ...func(*backup.Options),
	) (*backup.ListProtectedResourcesOutput, error)
}

// ---------------------------------------------------------------------------
// ebsClients and factory
// ---------------------------------------------------------------------------

// ebsClients holds all service clients needed for one collection run.
// All fields are interfaces; swap any with a mock in tests.
type ebsClients struct {
	EC2    ebsEC2Client
	Backup backupClient
}

// ebsClientFactory creates an ebsClients from an aws.Config.
type ebsClientFactory func(cfg aws.Config) *ebsClients

// newDefaultEBSClients is the production ebsClientFactory.
func newDefaultEBSClients(cfg aws.Config) *ebsClients {
	return &ebsClients{
		EC2:    ec2svc.NewFromConfig(cfg),
		Backup: backup.NewFromConfig(cfg),
	}
}

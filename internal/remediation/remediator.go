// Package remediation applies fixes for failed EBS compliance controls.
// Every operation here mutates cloud state and is therefore kept strictly
// outside the controls package; the engine invokes it only on an explicit
// FAIL with remediation enabled.
package remediation

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

const (
	// RemediationTagKey marks snapshots created by the encrypt workflow.
	// The value is the source volume ID, so a rerun can find and reuse an
	// in-flight snapshot instead of creating another.
	RemediationTagKey = "ebsguard:remediation"

	// DefaultSnapshotWait bounds the snapshot-completed waiter.
	DefaultSnapshotWait = 20 * time.Minute

	// DefaultVolumeWait bounds the volume-available waiter.
	DefaultVolumeWait = 10 * time.Minute
)

// EncryptResult describes the outcome of an encrypt-volume remediation.
type EncryptResult struct {
	// SnapshotID is the remediation snapshot the encrypted copy was built
	// from.
	SnapshotID string

	// NewVolumeID is the encrypted replacement volume. The source volume
	// is left in place for operator cutover.
	NewVolumeID string

	// ReusedSnapshot reports whether an existing remediation snapshot from
	// an earlier attempt was reused instead of creating a new one.
	ReusedSnapshot bool
}

// Remediator applies fixes for the two remediable controls.
type Remediator interface {
	// EnableDeleteOnTermination sets delete-on-termination on the volume's
	// attached device. The volume must be attached.
	EnableDeleteOnTermination(ctx context.Context, cfg aws.Config, vol models.EBSVolume) error

	// EncryptVolume creates an encrypted copy of an unencrypted volume via
	// snapshot and restore. Reruns reconcile against earlier attempts
	// before creating new resources.
	EncryptVolume(ctx context.Context, cfg aws.Config, vol models.EBSVolume) (EncryptResult, error)
}

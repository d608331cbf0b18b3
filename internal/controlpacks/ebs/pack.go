// Package ebs provides the EBS compliance control pack.
// It groups the volume, snapshot, and account-level checks into a single
// registration call.
package ebs

import "github.com/cloudhygiene/ebsguard/internal/controls"

// New returns the complete set of EBS compliance controls in evaluation
// order: volume checks first, then snapshot checks, then the account-level
// encryption default.
func New() []controls.Control {
	return []controls.Control{
		controls.VolumeAttachedControl{},
		controls.VolumeEncryptedControl{},
		controls.VolumeBackupPlanControl{},
		controls.VolumeHasSnapshotsControl{},
		controls.SnapshotEncryptedControl{},
		controls.SnapshotNotPublicControl{},
		controls.SnapshotSourceAttachedControl{},
		controls.AccountDefaultEncryptionControl{},
	}
}

// NewRegistry returns a registry pre-loaded with the full EBS pack.
func NewRegistry() *controls.DefaultRegistry {
	r := controls.NewDefaultRegistry()
	for _, c := range New() {
		r.Register(c)
	}
	return r
}

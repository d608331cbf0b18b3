package models

import "time"

// ---------------------------------------------------------------------------
// Raw EBS resource models (collected by provider, consumed by controls)
// ---------------------------------------------------------------------------

// EBSVolume represents a single collected EBS volume.
type EBSVolume struct {
	VolumeID         string            `json:"volume_id"`
	Region           string            `json:"region"`
	AvailabilityZone string            `json:"availability_zone"`
	VolumeType       string            `json:"volume_type"`
	SizeGB           int32             `json:"size_gb"`
	State            string            `json:"state"`
	Encrypted        bool              `json:"encrypted"`
	Tags             map[string]string `json:"tags,omitempty"`

	// AttachmentState is the raw state of the primary (first) attachment,
	// e.g. "attached", "attaching", "detaching". Empty when unattached.
	AttachmentState string `json:"attachment_state,omitempty"`

	// InstanceID and Device identify the primary attachment target.
	InstanceID string `json:"instance_id,omitempty"`
	Device     string `json:"device,omitempty"`

	// DeleteOnTermination mirrors the per-attachment flag. Unknown when the
	// volume has no attachment or the flag could not be read.
	DeleteOnTermination TriBool `json:"delete_on_termination"`
}

// Attached reports whether the primary attachment state is exactly "attached".
// The comparison is case-sensitive; any other state (including "attaching")
// counts as not attached.
func (v EBSVolume) Attached() bool {
	return v.AttachmentState == "attached"
}

// EBSSnapshot represents a single collected EBS snapshot.
type EBSSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	Region     string    `json:"region"`
	VolumeID   string    `json:"volume_id,omitempty"`
	State      string    `json:"state"`
	Encrypted  bool      `json:"encrypted"`
	StartTime  time.Time `json:"start_time"`

	// CreateVolumePermissions lists every grantee of the createVolumePermission
	// attribute: a group name (e.g. "all") or an AWS account ID. An empty list
	// means the snapshot is private. Unknown means the attribute was not
	// fetched or the call failed.
	CreateVolumePermissions []string `json:"create_volume_permissions,omitempty"`

	// PermissionsKnown is false when the createVolumePermission attribute
	// could not be determined; controls must then report ERROR, not FAIL.
	PermissionsKnown bool `json:"permissions_known"`
}

// Public reports whether any create-volume permission grant exists.
// Per the compliance rule, ANY non-empty grant counts, regardless of grantee.
func (s EBSSnapshot) Public() bool {
	return len(s.CreateVolumePermissions) > 0
}

// RegionData holds all raw EBS resource data collected from a single region,
// plus the account-level settings evaluated alongside it. It is passed to the
// control engine for evaluation.
type RegionData struct {
	Region    string        `json:"region"`
	Volumes   []EBSVolume   `json:"volumes"`
	Snapshots []EBSSnapshot `json:"snapshots"`

	// ProtectedVolumeIDs is the set of volume IDs present in the AWS Backup
	// protected-resource list. Nil when the Backup call failed; controls must
	// distinguish nil (unknown) from empty (no volume protected).
	ProtectedVolumeIDs map[string]struct{} `json:"-"`

	// DefaultEncryption is the account-level EBS encryption-by-default flag.
	DefaultEncryption TriBool `json:"default_encryption"`
}

// VolumeByID returns the collected volume with the given ID, if present.
func (rd *RegionData) VolumeByID(id string) (EBSVolume, bool) {
	for _, v := range rd.Volumes {
		if v.VolumeID == id {
			return v, true
		}
	}
	return EBSVolume{}, false
}

// SnapshotByID returns the collected snapshot with the given ID, if present.
func (rd *RegionData) SnapshotByID(id string) (EBSSnapshot, bool) {
	for _, s := range rd.Snapshots {
		if s.SnapshotID == id {
			return s, true
		}
	}
	return EBSSnapshot{}, false
}

// SnapshotCount returns the number of collected snapshots whose source volume
// is volumeID.
func (rd *RegionData) SnapshotCount(volumeID string) int {
	n := 0
	for _, s := range rd.Snapshots {
		if s.VolumeID == volumeID {
			n++
		}
	}
	return n
}

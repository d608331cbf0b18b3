package controls

// Alias maps one of the legacy numbered controls onto its canonical control,
// and records whether that number carries an automatic remediation.
type Alias struct {
	Number     int
	ControlID  string
	Remediable bool
}

// aliases preserves the original 1-13 numbering accepted on the command line
// and in the interactive menu. Several numbers were duplicate definitions of
// the same check and collapse onto one canonical control.
var aliases = []Alias{
	{Number: 1, ControlID: VolumeAttachedID, Remediable: true},
	{Number: 2, ControlID: VolumeEncryptedID, Remediable: true},
	{Number: 3, ControlID: SnapshotEncryptedID},
	{Number: 4, ControlID: SnapshotNotPublicID},
	{Number: 5, ControlID: AccountDefaultEncryptionID},
	{Number: 6, ControlID: VolumeBackupPlanID},
	{Number: 7, ControlID: VolumeHasSnapshotsID},
	{Number: 8, ControlID: VolumeAttachedID},
	{Number: 9, ControlID: VolumeEncryptedID},
	{Number: 10, ControlID: VolumeBackupPlanID},
	{Number: 11, ControlID: VolumeAttachedID},
	{Number: 12, ControlID: VolumeEncryptedID},
	{Number: 13, ControlID: SnapshotSourceAttachedID},
}

// Aliases returns the full numbered alias table in ascending order.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// ResolveAlias maps a legacy control number to its alias entry.
func ResolveAlias(number int) (Alias, bool) {
	for _, a := range aliases {
		if a.Number == number {
			return a, true
		}
	}
	return Alias{}, false
}

// AliasesFor returns the legacy numbers that map onto the given canonical
// control ID, in ascending order.
func AliasesFor(controlID string) []int {
	var nums []int
	for _, a := range aliases {
		if a.ControlID == controlID {
			nums = append(nums, a.Number)
		}
	}
	return nums
}

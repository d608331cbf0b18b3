package controls

import "testing"

func TestResolveAlias_AllThirteenNumbersResolve(t *testing.T) {
	for n := 1; n <= 13; n++ {
		if _, ok := ResolveAlias(n); !ok {
			t.Errorf("expected alias %d to resolve", n)
		}
	}
	if _, ok := ResolveAlias(0); ok {
		t.Error("alias 0 should not resolve")
	}
	if _, ok := ResolveAlias(14); ok {
		t.Error("alias 14 should not resolve")
	}
}

func TestResolveAlias_DuplicatesCollapse(t *testing.T) {
	cases := map[int]string{
		1:  VolumeAttachedID,
		8:  VolumeAttachedID,
		11: VolumeAttachedID,
		2:  VolumeEncryptedID,
		9:  VolumeEncryptedID,
		12: VolumeEncryptedID,
		6:  VolumeBackupPlanID,
		10: VolumeBackupPlanID,
		13: SnapshotSourceAttachedID,
	}
	for n, want := range cases {
		a, ok := ResolveAlias(n)
		if !ok {
			t.Fatalf("alias %d did not resolve", n)
		}
		if a.ControlID != want {
			t.Errorf("alias %d: expected %s, got %s", n, want, a.ControlID)
		}
	}
}

func TestResolveAlias_RemediationFlags(t *testing.T) {
	// Only the original numbers 1 and 2 carry an automatic remediation.
	for n := 1; n <= 13; n++ {
		a, _ := ResolveAlias(n)
		want := n == 1 || n == 2
		if a.Remediable != want {
			t.Errorf("alias %d: Remediable = %v, want %v", n, a.Remediable, want)
		}
	}
}

func TestAliasesFor(t *testing.T) {
	nums := AliasesFor(VolumeEncryptedID)
	if len(nums) != 3 || nums[0] != 2 || nums[1] != 9 || nums[2] != 12 {
		t.Errorf("unexpected aliases for %s: %v", VolumeEncryptedID, nums)
	}
	if got := AliasesFor("NOPE"); got != nil {
		t.Errorf("expected nil for unknown control, got %v", got)
	}
}

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cloudhygiene/ebsguard/internal/controlpacks/ebs"
	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/models"
	"github.com/cloudhygiene/ebsguard/internal/providers/aws/common"
	ebsprovider "github.com/cloudhygiene/ebsguard/internal/providers/aws/ebs"
	"github.com/cloudhygiene/ebsguard/internal/remediation"
	"github.com/cloudhygiene/ebsguard/internal/retry"
)

type fakeProvider struct {
	profile *common.ProfileConfig
	err     error
}

func (f *fakeProvider) LoadProfile(_ context.Context, _ string) (*common.ProfileConfig, error) {
	return f.profile, f.err
}

func (f *fakeProvider) GetActiveRegions(_ context.Context, _ *common.ProfileConfig) ([]string, error) {
	return []string{"us-east-1"}, nil
}

func (f *fakeProvider) ConfigForRegion(_ *common.ProfileConfig, region string) aws.Config {
	return aws.Config{Region: region}
}

type fakeEngineCollector struct {
	data       *models.RegionData
	err        error
	lastOpts   ebsprovider.CollectOptions
	collectCnt int
}

func (f *fakeEngineCollector) CollectRegion(_ context.Context, _ aws.Config, opts ebsprovider.CollectOptions) (*models.RegionData, error) {
	f.collectCnt++
	f.lastOpts = opts
	return f.data, f.err
}

func (f *fakeEngineCollector) ListVolumeIDs(_ context.Context, _ aws.Config, _ string) ([]string, error) {
	return nil, nil
}

func (f *fakeEngineCollector) DescribeVolume(_ context.Context, _ aws.Config, _, _ string) (models.EBSVolume, error) {
	return models.EBSVolume{}, ebsprovider.ErrNotFound
}

func (f *fakeEngineCollector) DescribeSnapshot(_ context.Context, _ aws.Config, _, _ string) (models.EBSSnapshot, error) {
	return models.EBSSnapshot{}, ebsprovider.ErrNotFound
}

func (f *fakeEngineCollector) CountSnapshots(_ context.Context, _ aws.Config, _ string) (int, error) {
	return 0, nil
}

func (f *fakeEngineCollector) ProtectedVolumeIDs(_ context.Context, _ aws.Config) (map[string]struct{}, error) {
	return nil, nil
}

func (f *fakeEngineCollector) EncryptionByDefault(_ context.Context, _ aws.Config) (bool, error) {
	return false, nil
}

func (f *fakeEngineCollector) FilterExistingVolumes(_ context.Context, _ aws.Config, _ []string) (map[string]bool, error) {
	return nil, nil
}

type fakeRemediator struct {
	dotCalls     []string
	encryptCalls []string
	dotErr       error
	encryptErr   error
}

func (f *fakeRemediator) EnableDeleteOnTermination(_ context.Context, _ aws.Config, vol models.EBSVolume) error {
	f.dotCalls = append(f.dotCalls, vol.VolumeID)
	return f.dotErr
}

func (f *fakeRemediator) EncryptVolume(_ context.Context, _ aws.Config, vol models.EBSVolume) (remediation.EncryptResult, error) {
	f.encryptCalls = append(f.encryptCalls, vol.VolumeID)
	if f.encryptErr != nil {
		return remediation.EncryptResult{}, f.encryptErr
	}
	return remediation.EncryptResult{SnapshotID: "snap-r", NewVolumeID: "vol-new"}, nil
}

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  2,
		InitialDelay: 1,
		Factor:       2,
		Sleep:        func(context.Context, time.Duration) error { return nil },
	}
}

func testProfile() *common.ProfileConfig {
	return &common.ProfileConfig{
		ProfileName: "default",
		AccountID:   "123456789012",
		Region:      "us-east-1",
	}
}

func testData() *models.RegionData {
	return &models.RegionData{
		Region: "us-east-1",
		Volumes: []models.EBSVolume{
			{VolumeID: "vol-good", Encrypted: true, AttachmentState: "attached", InstanceID: "i-1", Device: "/dev/sdf"},
			{VolumeID: "vol-plain", AttachmentState: "attached", InstanceID: "i-1", Device: "/dev/sdg"},
		},
		Snapshots: []models.EBSSnapshot{
			{SnapshotID: "snap-1", VolumeID: "vol-good", Encrypted: true, PermissionsKnown: true},
		},
		ProtectedVolumeIDs: map[string]struct{}{"vol-good": {}},
		DefaultEncryption:  models.True,
	}
}

func newTestEngine(collector *fakeEngineCollector, rem *fakeRemediator) *ControlEngine {
	return NewControlEngine(
		&fakeProvider{profile: testProfile()},
		collector,
		ebs.NewRegistry(),
		rem,
		fastRetry(),
	)
}

func TestRunControls_FullPack(t *testing.T) {
	collector := &fakeEngineCollector{data: testData()}
	e := newTestEngine(collector, &fakeRemediator{})

	report, err := e.RunControls(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AccountID != "123456789012" || report.Region != "us-east-1" {
		t.Errorf("report header mismatch: %+v", report)
	}
	if report.ReportID == "" {
		t.Error("expected a generated report ID")
	}
	// 8 controls over 2 volumes + 1 snapshot + account:
	// 4 volume controls x2, 3 snapshot controls x1, 1 account control
	if len(report.Results) != 12 {
		t.Errorf("expected 12 results, got %d", len(report.Results))
	}
	if report.Summary.TotalResults != len(report.Results) {
		t.Errorf("summary total %d != results %d", report.Summary.TotalResults, len(report.Results))
	}
	if report.Summary.Passed+report.Summary.Failed+report.Summary.Indeterminate != len(report.Results) {
		t.Errorf("summary outcome counts do not add up: %+v", report.Summary)
	}
	if !collector.lastOpts.IncludeSnapshotPermissions {
		t.Error("full pack run should fetch snapshot permissions")
	}
}

func TestRunControls_SelectedControlsOnly(t *testing.T) {
	collector := &fakeEngineCollector{data: testData()}
	e := newTestEngine(collector, &fakeRemediator{})

	report, err := e.RunControls(context.Background(), RunOptions{
		Controls: []string{controls.VolumeEncryptedID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	for _, r := range report.Results {
		if r.ControlID != controls.VolumeEncryptedID {
			t.Errorf("unexpected control in results: %s", r.ControlID)
		}
	}
	if collector.lastOpts.IncludeSnapshotPermissions {
		t.Error("volume-only run should not fetch snapshot permissions")
	}
}

func TestRunControls_UnknownControl(t *testing.T) {
	e := newTestEngine(&fakeEngineCollector{data: testData()}, &fakeRemediator{})
	if _, err := e.RunControls(context.Background(), RunOptions{Controls: []string{"NOPE"}}); err == nil {
		t.Fatal("expected error for unknown control ID")
	}
}

func TestRunControls_RemediatesFailedEncryption(t *testing.T) {
	rem := &fakeRemediator{}
	e := newTestEngine(&fakeEngineCollector{data: testData()}, rem)

	report, err := e.RunControls(context.Background(), RunOptions{
		Controls:  []string{controls.VolumeEncryptedID},
		Remediate: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rem.encryptCalls) != 1 || rem.encryptCalls[0] != "vol-plain" {
		t.Errorf("expected encrypt remediation for vol-plain, got %v", rem.encryptCalls)
	}
	var remediated int
	for _, r := range report.Results {
		if r.Remediated {
			remediated++
		}
	}
	if remediated != 1 || report.Summary.Remediated != 1 {
		t.Errorf("expected 1 remediated result, got %d (summary %d)", remediated, report.Summary.Remediated)
	}
}

func TestRunControls_RemediationFailureLeavesResultUnremediated(t *testing.T) {
	rem := &fakeRemediator{encryptErr: errors.New("snapshot wait timed out")}
	e := newTestEngine(&fakeEngineCollector{data: testData()}, rem)

	report, err := e.RunControls(context.Background(), RunOptions{
		Controls:  []string{controls.VolumeEncryptedID},
		Remediate: true,
	})
	if err != nil {
		t.Fatalf("remediation failure should not abort the run: %v", err)
	}
	for _, r := range report.Results {
		if r.Remediated {
			t.Errorf("result should not be marked remediated: %+v", r)
		}
	}
}

func TestRunControls_NoRemediationWithoutFlag(t *testing.T) {
	rem := &fakeRemediator{}
	e := newTestEngine(&fakeEngineCollector{data: testData()}, rem)

	if _, err := e.RunControls(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rem.dotCalls) != 0 || len(rem.encryptCalls) != 0 {
		t.Errorf("remediation ran without the flag: dot=%v encrypt=%v", rem.dotCalls, rem.encryptCalls)
	}
}

func TestRunControls_CollectFailure(t *testing.T) {
	collector := &fakeEngineCollector{err: errors.New("access denied")}
	e := newTestEngine(collector, &fakeRemediator{})

	if _, err := e.RunControls(context.Background(), RunOptions{}); err == nil {
		t.Fatal("expected error when collection fails")
	}
	if collector.collectCnt != 2 {
		t.Errorf("expected collection to be retried, got %d attempts", collector.collectCnt)
	}
}

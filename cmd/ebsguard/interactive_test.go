package main

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/models"
)

func TestRunInteractive_QuitImmediately(t *testing.T) {
	a, buf := testApp(&fakeEngine{}, &fakeProvider{}, &fakeCollector{})
	in := strings.NewReader("4\n")

	if err := runInteractive(context.Background(), a, in, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Run a compliance control") {
		t.Errorf("menu not rendered:\n%s", buf.String())
	}
}

func TestRunInteractive_EOFEndsSession(t *testing.T) {
	a, buf := testApp(&fakeEngine{}, &fakeProvider{}, &fakeCollector{})
	if err := runInteractive(context.Background(), a, strings.NewReader(""), buf); err != nil {
		t.Fatalf("expected clean exit on EOF, got %v", err)
	}
}

func TestRunInteractive_RunsNumberedControl(t *testing.T) {
	eng := &fakeEngine{report: &models.AuditReport{
		Results: []models.ControlResult{
			{ControlID: controls.VolumeEncryptedID, ResourceID: "vol-1", Outcome: models.OutcomePass},
		},
		Summary: models.AuditSummary{TotalResults: 1, Passed: 1},
	}}
	a, buf := testApp(eng, &fakeProvider{}, &fakeCollector{})

	// option 1 → control 12 (volume encrypted alias) → vol-1 → quit
	in := strings.NewReader("1\n12\nvol-1\n4\n")
	if err := runInteractive(context.Background(), a, in, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.lastOpts.Target != "vol-1" {
		t.Errorf("target not forwarded: %+v", eng.lastOpts)
	}
	if len(eng.lastOpts.Controls) != 1 || eng.lastOpts.Controls[0] != controls.VolumeEncryptedID {
		t.Errorf("control not resolved from number: %+v", eng.lastOpts)
	}
	if eng.lastOpts.Remediate {
		t.Error("alias 12 must not remediate")
	}
}

func TestRunInteractive_RemediationPrompt(t *testing.T) {
	eng := &fakeEngine{report: &models.AuditReport{
		Summary: models.AuditSummary{},
	}}
	a, buf := testApp(eng, &fakeProvider{}, &fakeCollector{})

	// option 1 → control 2 (remediable) → vol-1 → yes to remediation → quit
	in := strings.NewReader("1\n2\nvol-1\ny\n4\n")
	if err := runInteractive(context.Background(), a, in, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eng.lastOpts.Remediate {
		t.Error("expected remediation enabled after y answer")
	}
	if !strings.Contains(buf.String(), "Remediate on failure?") {
		t.Errorf("remediation prompt missing:\n%s", buf.String())
	}
}

func TestRunInteractive_UnknownOptionContinues(t *testing.T) {
	a, buf := testApp(&fakeEngine{}, &fakeProvider{}, &fakeCollector{})
	in := strings.NewReader("9\n4\n")

	if err := runInteractive(context.Background(), a, in, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `unknown option "9"`) {
		t.Errorf("expected unknown-option message:\n%s", buf.String())
	}
}

func TestSubjectOf(t *testing.T) {
	if subjectOf(controls.VolumeAttachedID) != models.ResourceVolume {
		t.Error("volume control should prompt for a volume")
	}
	if subjectOf(controls.SnapshotEncryptedID) != models.ResourceSnapshot {
		t.Error("snapshot control should prompt for a snapshot")
	}
	if subjectOf(controls.AccountDefaultEncryptionID) != models.ResourceAccount {
		t.Error("account control needs no resource prompt")
	}
}

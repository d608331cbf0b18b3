package controls

import (
	"testing"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

type stubControl struct {
	id      string
	results []models.ControlResult
}

func (s stubControl) ID() string   { return s.id }
func (s stubControl) Name() string { return s.id }
func (s stubControl) Evaluate(_ ControlContext) []models.ControlResult {
	return s.results
}

func TestDefaultRegistry_RegisterAndLookup(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(stubControl{id: "A"})
	r.Register(stubControl{id: "B"})

	if len(r.All()) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(r.All()))
	}
	if _, ok := r.ByID("A"); !ok {
		t.Error("expected to find control A")
	}
	if _, ok := r.ByID("missing"); ok {
		t.Error("did not expect to find control missing")
	}
}

func TestDefaultRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r := NewDefaultRegistry()
	r.Register(stubControl{id: "DUP"})
	r.Register(stubControl{id: "DUP"})
}

func TestDefaultRegistry_EvaluateAllPreservesOrder(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(stubControl{id: "FIRST", results: []models.ControlResult{
		{ControlID: "FIRST", ResourceID: "vol-1", Outcome: models.OutcomePass},
	}})
	r.Register(stubControl{id: "SECOND", results: []models.ControlResult{
		{ControlID: "SECOND", ResourceID: "vol-1", Outcome: models.OutcomeFail},
	}})

	results := r.EvaluateAll(ControlContext{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ControlID != "FIRST" || results[1].ControlID != "SECOND" {
		t.Errorf("results out of registration order: %+v", results)
	}
}

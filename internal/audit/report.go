package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// NewReport builds an empty audit report stamped with a fresh report ID.
func NewReport(accountID, profile, region string) *models.AuditReport {
	return &models.AuditReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		AccountID:   accountID,
		Profile:     profile,
		Region:      region,
	}
}

// Summarize counts outcomes across control results and indeterminate volume
// records. ERROR outcomes count as indeterminate and stay out of the
// pass/fail totals.
func Summarize(results []models.ControlResult, records []models.VolumeAuditRecord) models.AuditSummary {
	s := models.AuditSummary{TotalResults: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case models.OutcomePass:
			s.Passed++
		case models.OutcomeFail:
			s.Failed++
		case models.OutcomeError:
			s.Indeterminate++
		}
		if r.Remediated {
			s.Remediated++
		}
	}
	for _, rec := range records {
		if rec.Indeterminate() {
			s.Indeterminate++
		}
	}
	return s
}

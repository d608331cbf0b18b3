package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudhygiene/ebsguard/internal/models"
)

// ANSI color codes for outcome output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[0;32m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls how RenderResults renders control results.
type TableOptions struct {
	// Colored wraps outcome labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeProfile adds a PROFILE column.
	IncludeProfile bool
}

// ColorOutcome wraps an outcome string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorOutcome(o models.Outcome, colored bool) string {
	s := string(o)
	if !colored {
		return s
	}
	switch o {
	case models.OutcomePass:
		return ansiGreen + s + ansiReset
	case models.OutcomeFail:
		return ansiRed + s + ansiReset
	case models.OutcomeError:
		return ansiYellow + s + ansiReset
	default:
		return s
	}
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// outcomeCell returns the outcome padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay visually aligned regardless of terminal ANSI support.
func outcomeCell(o models.Outcome, width int, colored bool) string {
	text := string(o)
	if !colored {
		return fmt.Sprintf("%-*s", width, text)
	}
	var code string
	switch o {
	case models.OutcomePass:
		code = ansiGreen
	case models.OutcomeFail:
		code = ansiRed
	case models.OutcomeError:
		code = ansiYellow
	default:
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max bytes for ID/label columns.
// A single-char ellipsis replaces the last byte when truncation occurs.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// RenderResults writes a formatted control-result table to w.
//
// Column order:
//
//	CONTROL  RESOURCE ID  [PROFILE]  REGION  OUTCOME  REASON
func RenderResults(w io.Writer, results []models.ControlResult, opts TableOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	// Fixed column display widths.
	const (
		wControl  = 27
		wResource = 24
		wProfile  = 12
		wRegion   = 15
		wOutcome  = 7
		wReason   = 55
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wControl, "CONTROL"))
	hb.WriteString(fmt.Sprintf("  %-*s", wResource, "RESOURCE ID"))
	if opts.IncludeProfile {
		hb.WriteString(fmt.Sprintf("  %-*s", wProfile, "PROFILE"))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wRegion, "REGION"))
	hb.WriteString(fmt.Sprintf("  %-*s", wOutcome, "OUTCOME"))
	hb.WriteString(fmt.Sprintf("  %-*s", wReason, "REASON"))
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range results {
		reason := r.Reason
		if r.Remediated {
			reason = strings.TrimSpace(reason + " [remediated]")
		}
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wControl, truncateField(r.ControlID, wControl)))
		rb.WriteString(fmt.Sprintf("  %-*s", wResource, truncateField(r.ResourceID, wResource)))
		if opts.IncludeProfile {
			rb.WriteString(fmt.Sprintf("  %-*s", wProfile, truncateField(r.AccountID, wProfile)))
		}
		rb.WriteString(fmt.Sprintf("  %-*s", wRegion, truncateField(r.Region, wRegion)))
		rb.WriteString("  " + outcomeCell(r.Outcome, wOutcome, opts.Colored))
		rb.WriteString(fmt.Sprintf("  %-*s", wReason, ShortenMessage(reason, wReason)))
		fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
	}
}

// RenderRecords writes the fleet-audit volume records as a fixed-width table.
//
// Column order:
//
//	VOLUME ID  ATTACHED  ENCRYPTED  DEL-ON-TERM  BACKUP  SNAPSHOTS
func RenderRecords(w io.Writer, records []models.VolumeAuditRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No volumes audited.")
		return
	}

	const (
		wVolume = 24
		wField  = 11
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %-*s",
		wVolume, "VOLUME ID",
		wField, "ATTACHED",
		wField, "ENCRYPTED",
		wField, "DEL-ON-TERM",
		wField, "BACKUP",
		wField, "SNAPSHOTS")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range records {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %-*s\n",
			wVolume, truncateField(r.VolumeID, wVolume),
			wField, r.Attached.String(),
			wField, r.Encrypted.String(),
			wField, r.DeleteOnTermination.String(),
			wField, r.BackupPlan.String(),
			wField, r.HasSnapshots.String())
	}
}

// RenderSummary writes the one-line per-outcome totals under a results table.
func RenderSummary(w io.Writer, s models.AuditSummary) {
	fmt.Fprintf(w, "\n%d results: %d passed, %d failed, %d indeterminate",
		s.TotalResults, s.Passed, s.Failed, s.Indeterminate)
	if s.Remediated > 0 {
		fmt.Fprintf(w, ", %d remediated", s.Remediated)
	}
	fmt.Fprintln(w)
}

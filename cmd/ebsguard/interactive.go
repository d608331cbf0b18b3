package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ebspack "github.com/cloudhygiene/ebsguard/internal/controlpacks/ebs"
	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/models"
)

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Menu-driven audit session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			return runInteractive(cmd.Context(), a, cmd.InOrStdin(), a.out)
		},
	}
}

// runInteractive drives the numbered menu loop. It routes every selection to
// the same app operations the non-interactive subcommands use; command
// failures are printed and the loop continues.
func runInteractive(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "ebsguard")
		fmt.Fprintln(out, "  1) Run a compliance control")
		fmt.Fprintln(out, "  2) Audit all volumes")
		fmt.Fprintln(out, "  3) Validate orphaned snapshots")
		fmt.Fprintln(out, "  4) Quit")

		choice, err := prompt(reader, out, "Select an option: ")
		if err != nil {
			// EOF on stdin ends the session
			return nil
		}

		switch choice {
		case "1":
			if err := runControlMenu(ctx, a, reader, out); err != nil {
				fmt.Fprintf(out, "control failed: %v\n", err)
			}
		case "2":
			if err := a.auditVolumes(ctx, false, ""); err != nil {
				fmt.Fprintf(out, "audit failed: %v\n", err)
			}
		case "3":
			if err := a.validateOrphans(ctx); err != nil {
				fmt.Fprintf(out, "validation failed: %v\n", err)
			}
		case "4", "q", "quit":
			return nil
		default:
			fmt.Fprintf(out, "unknown option %q\n", choice)
		}
	}
}

// runControlMenu shows the numbered control sub-menu, prompts for the
// resource the control needs, and runs it.
func runControlMenu(ctx context.Context, a *app, reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintln(out)
	for _, alias := range controls.Aliases() {
		name := alias.ControlID
		if c, ok := controlByID(alias.ControlID); ok {
			name = c.Name()
		}
		marker := ""
		if alias.Remediable {
			marker = " (remediates on failure)"
		}
		fmt.Fprintf(out, "  %2d) %s%s\n", alias.Number, name, marker)
	}

	choice, err := prompt(reader, out, "Control number: ")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil {
		return fmt.Errorf("not a control number: %q", choice)
	}
	alias, ok := controls.ResolveAlias(n)
	if !ok {
		return fmt.Errorf("unknown control number %d (valid: 1-13)", n)
	}

	target := ""
	switch subjectOf(alias.ControlID) {
	case models.ResourceVolume:
		if target, err = prompt(reader, out, "Volume ID: "); err != nil {
			return err
		}
	case models.ResourceSnapshot:
		if target, err = prompt(reader, out, "Snapshot ID: "); err != nil {
			return err
		}
	}

	remediate := false
	if alias.Remediable {
		answer, err := prompt(reader, out, "Remediate on failure? [y/N]: ")
		if err != nil {
			return err
		}
		remediate = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}

	return a.runControls(ctx, []string{alias.ControlID}, target, remediate, "table")
}

// prompt writes label and reads one trimmed line.
func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// subjectOf maps a canonical control ID to the resource type it prompts for.
// The account-level control needs no resource.
func subjectOf(controlID string) models.ResourceType {
	switch controlID {
	case controls.SnapshotEncryptedID, controls.SnapshotNotPublicID, controls.SnapshotSourceAttachedID:
		return models.ResourceSnapshot
	case controls.AccountDefaultEncryptionID:
		return models.ResourceAccount
	default:
		return models.ResourceVolume
	}
}

// controlByID looks a control up in the full pack regardless of registry
// filtering, so the menu can always display its name.
func controlByID(id string) (controls.Control, bool) {
	for _, c := range ebspack.New() {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

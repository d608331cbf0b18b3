package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudhygiene/ebsguard/internal/config"
	ebspack "github.com/cloudhygiene/ebsguard/internal/controlpacks/ebs"
	"github.com/cloudhygiene/ebsguard/internal/controls"
	"github.com/cloudhygiene/ebsguard/internal/logging"
	"github.com/cloudhygiene/ebsguard/internal/version"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		profile string
		region  string
		noColor bool
		verbose bool
		cleanup func() error
	)

	root := &cobra.Command{
		Use:           "ebsguard",
		Short:         "EBS compliance auditing and remediation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if noColor {
				cfg.NoColor = true
			}
			logging.SetVerbose(verbose)
			closer, err := logging.Setup(cfg.LogPath, cfg.NoColor)
			if err != nil {
				return err
			}
			cleanup = closer

			cmd.SetContext(withAppContext(cmd.Context(), newApp(cfg, profile, region)))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ./ebsguard.yaml)")
	root.PersistentFlags().StringVar(&profile, "profile", "", "AWS profile name (default: credential chain)")
	root.PersistentFlags().StringVar(&region, "region", "", "AWS region (default: config file or "+config.DefaultRegion+")")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI colour output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newAuditCmd())
	root.AddCommand(newControlCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newInteractiveCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit EBS volumes against the compliance baseline",
	}
	cmd.AddCommand(newAuditVolumesCmd())
	cmd.AddCommand(newAuditVolumeCmd())
	return cmd
}

func newAuditVolumesCmd() *cobra.Command {
	var (
		parallel bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "Audit every volume in the region and write the report file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFromContext(cmd.Context()).auditVolumes(cmd.Context(), parallel, output)
		},
	}
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Audit volumes with a bounded worker pool")
	cmd.Flags().StringVar(&output, "output", "", "Report file path (default: "+config.DefaultReportPath+")")
	return cmd
}

func newAuditVolumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume <volume-id>",
		Short: "Audit a single volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFromContext(cmd.Context()).auditVolume(cmd.Context(), args[0])
		},
	}
	return cmd
}

func newControlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "List and run individual compliance controls",
	}
	cmd.AddCommand(newControlListCmd())
	cmd.AddCommand(newControlRunCmd())
	return cmd
}

func newControlListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available controls and their numeric aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			fmt.Fprintf(a.out, "%-27s  %-32s  %s\n", "ID", "NAME", "ALIASES")
			for _, c := range ebspack.New() {
				nums := controls.AliasesFor(c.ID())
				parts := make([]string, len(nums))
				for i, n := range nums {
					parts[i] = strconv.Itoa(n)
				}
				fmt.Fprintf(a.out, "%-27s  %-32s  %s\n", c.ID(), c.Name(), strings.Join(parts, ", "))
			}
			return nil
		},
	}
}

func newControlRunCmd() *cobra.Command {
	var (
		target    string
		remediate bool
		reportFmt string
	)
	cmd := &cobra.Command{
		Use:   "run <control-id-or-number>",
		Short: "Run one control, optionally remediating failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, remediable, err := resolveControlArg(args[0])
			if err != nil {
				return err
			}
			if remediate && !remediable {
				return fmt.Errorf("control %s has no automatic remediation", args[0])
			}
			return appFromContext(cmd.Context()).runControls(cmd.Context(), []string{id}, target, remediate, reportFmt)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Restrict evaluation to one volume or snapshot ID")
	cmd.Flags().BoolVar(&remediate, "remediate", false, "Apply the automatic fix for failures (controls 1 and 2 only)")
	cmd.Flags().StringVar(&reportFmt, "report", "table", "Output format: json or table")
	return cmd
}

// resolveControlArg accepts either a canonical control ID or one of the
// legacy numbers 1-13 and returns the canonical ID plus whether the selection
// carries an automatic remediation.
func resolveControlArg(arg string) (string, bool, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		a, ok := controls.ResolveAlias(n)
		if !ok {
			return "", false, fmt.Errorf("unknown control number %d (valid: 1-13)", n)
		}
		return a.ControlID, a.Remediable, nil
	}
	id := strings.ToUpper(arg)
	for _, c := range ebspack.New() {
		if c.ID() == id {
			// Canonical IDs carry remediation when any of their aliases do.
			for _, n := range controls.AliasesFor(id) {
				if a, ok := controls.ResolveAlias(n); ok && a.Remediable {
					return id, true, nil
				}
			}
			return id, false, nil
		}
	}
	return "", false, fmt.Errorf("unknown control %q", arg)
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot hygiene checks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "orphans",
		Short: "List snapshots whose source volume no longer exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFromContext(cmd.Context()).validateOrphans(cmd.Context())
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

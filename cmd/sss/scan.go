package main

import (
	"fmt"
	"path/filepath"

	"sss-go/internal/config"
	"sss-go/internal/sss"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Sort images into PATH/_by_date/YYYY/MM by modification date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if noDryRun, _ := cmd.Flags().GetBool("no-dry-run"); noDryRun {
			dryRun = false
		}

		a, err := newApp(cmd, sss.OpOrganize, func(cfg *config.Config) error {
			if cmd.Flags().Changed("recursive") {
				cfg.Scan.Recursive, _ = cmd.Flags().GetBool("recursive")
			}
			return nil
		})
		if err != nil {
			return err
		}
		defer a.Close()

		plan, err := a.PlanOrganize(args[0], outDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printf(out, dimStyle, "Output root: %s", plan.OutRoot)
		if plan.Empty() {
			fmt.Fprintln(out, "No screenshots found.")
			return nil
		}

		printf(out, headerStyle, "Found %d screenshot(s):", len(plan.Items))
		for _, item := range plan.Items {
			fmt.Fprintf(out, "PLAN: %s -> %s  %s\n",
				filepath.Base(item.Src), item.DestDir,
				dimStyle.Render(fmt.Sprintf("(%s, %s)", humanize.IBytes(uint64(item.Size)), item.ModTime.Format("2006-01-02 15:04:05"))))
		}

		if dryRun {
			for _, item := range plan.Items {
				printf(out, dimStyle, "SIMULATE: %s -> %s", filepath.Base(item.Src), item.DestDir)
			}
			printf(out, summaryStyle, "%s", a.Simulate(plan).Render())
			return nil
		}

		report, execErr := a.ExecuteOrganize(plan)
		if report != nil && report.RunID != 0 {
			_, moves, err := a.RunMoves(report.RunID)
			if err != nil {
				return err
			}
			for _, m := range moves {
				printf(out, moveStyle, "MOVED: %s -> %s", filepath.Base(m.Src), m.Dst)
			}
		}
		if report != nil {
			printf(out, summaryStyle, "%s", report.Render())
		}
		return execErr
	},
}

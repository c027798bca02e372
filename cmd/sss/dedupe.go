package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"sss-go/internal/config"
	"sss-go/internal/dedupe"
	"sss-go/internal/sss"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe PATH",
	Short: "Find byte-identical files and move all but one aside",
	Long: `Find byte-identical files below PATH. Every group keeps one file, chosen by
the keeper policy; the others are moved to TARGET/<digest prefix>/<name>.
Without --execute nothing is moved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		execute, _ := cmd.Flags().GetBool("execute")
		target, _ := cmd.Flags().GetString("target")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp(cmd, sss.OpDedupe, func(cfg *config.Config) error {
			if cmd.Flags().Changed("keep") {
				keep, _ := cmd.Flags().GetString("keep")
				if _, err := dedupe.ParsePolicy(keep); err != nil {
					return err
				}
				cfg.Dedupe.KeeperPolicy = keep
			}
			if cmd.Flags().Changed("algorithm") {
				cfg.Dedupe.HashAlgorithm, _ = cmd.Flags().GetString("algorithm")
			}
			if cmd.Flags().Changed("recursive") {
				cfg.Scan.Recursive, _ = cmd.Flags().GetBool("recursive")
			}
			return nil
		})
		if err != nil {
			return err
		}
		defer a.Close()

		plan, err := a.PlanDedupe(args[0], target)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if plan.Empty() {
			fmt.Fprintln(out, "No duplicate files found.")
			return nil
		}

		if !execute {
			printf(out, headerStyle, "Dry-Run: %d duplicate file(s) in %d group(s)", len(plan.Actions), len(plan.Groups))
			printPlan(out, plan)
			printf(out, summaryStyle, "%s", a.Simulate(plan).Render())
			return nil
		}

		printf(out, headerStyle, "Execute: %d duplicate file(s) in %d group(s)", len(plan.Actions), len(plan.Groups))
		printPlan(out, plan)
		if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
			ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Move %d file(s)?", len(plan.Actions)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		report, err := a.ExecuteDedupe(plan)
		if report != nil {
			printf(out, summaryStyle, "%s", report.Render())
		}
		if err != nil && report != nil && report.RunID != 0 {
			printf(cmd.ErrOrStderr(), errorStyle, "stopped after %d move(s); see sss history show %d", report.Moved, report.RunID)
		}
		return err
	},
}

func printPlan(w io.Writer, plan *sss.DedupePlan) {
	for _, g := range plan.Groups {
		fmt.Fprintln(w)
		printf(w, dimStyle, "group %s  %s x %d", dedupe.ShortDigest(g.Group.Digest),
			humanize.IBytes(uint64(g.Group.Size)), len(g.Group.Files))
		printf(w, keepStyle, "KEEP %s", g.Keeper)
		for _, a := range g.Actions {
			fmt.Fprintf(w, "%s  %s\n",
				moveStyle.Render(fmt.Sprintf("MOVE %s -> %s", a.Src, a.Dst)),
				dimStyle.Render("("+a.Reason+")"))
		}
	}
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

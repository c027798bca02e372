package main

import (
	"fmt"
	"strconv"
	"time"

	"sss-go/internal/sss"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "history", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt.Valid {
				duration = r.FinishedAt.Time.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Fprintf(out, "#%d  %-9s  %s  %-8s  %5d move(s)  %-8s  %s\n",
				r.ID,
				r.Operation,
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Status,
				r.MoveCount,
				duration,
				dimStyle.Render(humanize.Time(r.StartedAt)),
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show the moves of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}

		a, err := newApp(cmd, "history", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		run, moves, err := a.RunMoves(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printf(out, headerStyle, "Run #%d  %s  %s", run.ID, run.Operation, run.Status)
		fmt.Fprintf(out, "uuid:       %s\n", run.UUID)
		fmt.Fprintf(out, "root:       %s\n", run.Root)
		fmt.Fprintf(out, "parameters: %s\n", run.Parameters)
		fmt.Fprintf(out, "started:    %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if run.FinishedAt.Valid {
			fmt.Fprintf(out, "finished:   %s\n", run.FinishedAt.Time.Local().Format("2006-01-02 15:04:05"))
		}
		if len(moves) == 0 {
			fmt.Fprintln(out, "No moves.")
			return nil
		}
		fmt.Fprintln(out)
		for _, m := range moves {
			line := fmt.Sprintf("%s %s -> %s", m.Kind, m.Src, m.Dst)
			if run.Operation == sss.OpDedupe {
				line += "  " + dimStyle.Render("("+m.Reason+")")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

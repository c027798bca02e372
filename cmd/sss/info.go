package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Show size, type, fingerprint and image details of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "info", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		mds, err := a.Inspect(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, md := range mds {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printf(out, headerStyle, "%s", md.Path)
			fmt.Fprintf(out, "ext:      %s\n", md.Ext)
			fmt.Fprintf(out, "size:     %s (%d bytes)\n", humanize.IBytes(uint64(md.Size)), md.Size)
			fmt.Fprintf(out, "mime:     %s\n", md.MIME)
			fmt.Fprintf(out, "modified: %s\n", md.ModTime.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "%-9s %s\n", md.Algorithm+":", md.Digest)
			if md.Width > 0 {
				fmt.Fprintf(out, "pixels:   %dx%d\n", md.Width, md.Height)
			}
			if !md.TakenAt.IsZero() {
				fmt.Fprintf(out, "taken:    %s\n", md.TakenAt.Format("2006-01-02 15:04:05"))
			}
			if md.Camera != "" {
				fmt.Fprintf(out, "camera:   %s\n", md.Camera)
			}
		}
		return nil
	},
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsync/internal/journal"
)

func newHistoryCmd(cfgFile *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs from the local run journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*cfgFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dbPath := filepath.Join(cfg.CacheDir, journalFile)
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "No sync runs recorded yet.")
				return nil
			}

			j, err := journal.Open(dbPath)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.Recent(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No sync runs recorded yet.")
				return nil
			}

			for _, run := range runs {
				status := paint(okStyle, "ok")
				switch {
				case run.Total > 0 && run.Failed == run.Total:
					status = paint(failStyle, "failed")
				case run.Failed > 0:
					status = paint(warnStyle, "partial")
				}
				fmt.Fprintf(out, "%s  %-7s %d/%d sources\n",
					run.StartedAt.Local().Format("2006-01-02 15:04:05"), status, run.Succeeded, run.Total)
				for _, o := range run.Failures() {
					fmt.Fprintf(out, "    %s %s: %s\n", paint(failStyle, "-"), o.URL, o.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

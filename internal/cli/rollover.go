package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRolloverCmd(getApp appGetter) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Reset monthly usage for every account past its period boundary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !dryRun {
				n, err := app.Rollover.RunNow(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "rolled over %d account(s)\n", n)
				return nil
			}

			ids, err := app.Rollover.Candidates(cmd.Context())
			if err != nil {
				return err
			}
			now := app.Clock.Now()
			due := 0
			for _, id := range ids {
				account, err := app.Accounts.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				next := account.Snapshot().Usage.NextRollover()
				if now.Before(next) {
					continue
				}
				due++
				_, _ = fmt.Fprintf(out, "%s\t%d generations this period\n", id, account.Usage.PeriodGenerations)
			}
			_, _ = fmt.Fprintf(out, "%d account(s) due\n", due)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list due accounts without resetting them")
	return cmd
}

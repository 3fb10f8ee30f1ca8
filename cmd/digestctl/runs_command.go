package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent digest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer ctx.close()

			runs, err := svc.DigestStore.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				sent := "-"
				if r.SentAt != nil {
					sent = r.SentAt.Format(timeLayout)
				}
				rows = append(rows, []string{
					r.ID,
					r.StartDate.Format(timeLayout) + " → " + r.EndDate.Format(timeLayout),
					strconv.Itoa(r.RecipientCount),
					sent,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Window", "Recipients", "Sent at"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

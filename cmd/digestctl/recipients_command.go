package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecipientsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recipients [id...]",
		Short: "List subscribers eligible for the digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer ctx.close()

			subs, err := svc.Recipients.Select(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No eligible subscribers")
				return nil
			}

			rows := make([][]string, 0, len(subs))
			for _, s := range subs {
				rows = append(rows, []string{s.ID, s.Name, s.Email, strconv.Itoa(s.EmailBounceCount)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Email", "Bounces"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d eligible\n", len(subs))
			return nil
		},
	}
}

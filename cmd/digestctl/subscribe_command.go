package main

import (
	"fmt"

	"github.com/quoteverse/core/internal/modules/subscription/subscriber"
	"github.com/spf13/cobra"
)

func newSubscribeCommand(ctx *commandContext) *cobra.Command {
	var name, email string
	var noDigest bool

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Sign up a subscriber and send the verification email",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer ctx.close()

			weekly := !noDigest
			result, err := svc.Subscribers.Subscribe(cmd.Context(), subscriber.SignupRequest{
				Name:               name,
				Email:              email,
				NotifyWeeklyDigest: &weekly,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.Outcome, result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Subscriber name")
	cmd.Flags().StringVar(&email, "email", "", "Subscriber email")
	cmd.Flags().BoolVar(&noDigest, "no-digest", false, "Opt out of the weekly digest")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

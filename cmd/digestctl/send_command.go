package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/spf13/cobra"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var testEmail string
	var users []string
	var all bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the weekly digest",
		Long: "Send the digest for the trailing window.\n\n" +
			"Exactly one of --test-email, --users or --all is required.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildSendRequest(testEmail, users, all)
			if err != nil {
				return err
			}
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			defer ctx.close()

			result, err := svc.Digest.Dispatch(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("dispatch digest: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Message)
			fmt.Fprintln(out, renderTable(
				[]string{"Mode", "Sent", "Failed", "Run"},
				[][]string{{modeLabel(result.TestMode), strconv.Itoa(result.RecipientCount), strconv.Itoa(result.FailureCount), valueOrDash(result.DigestID)}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			if result.FailureCount > 0 && result.RecipientCount == 0 {
				return errors.New("every send failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&testEmail, "test-email", "", "Send a test digest to this address only")
	cmd.Flags().StringSliceVar(&users, "users", nil, "Comma-separated subscriber IDs to send to")
	cmd.Flags().BoolVar(&all, "all", false, "Send to every eligible subscriber")
	return cmd
}

// buildSendRequest maps the mutually exclusive send flags onto a request.
func buildSendRequest(testEmail string, users []string, all bool) (dispatch.Request, error) {
	testEmail = strings.TrimSpace(testEmail)
	var ids []string
	for _, u := range users {
		if u = strings.TrimSpace(u); u != "" {
			ids = append(ids, u)
		}
	}

	modes := 0
	for _, set := range []bool{testEmail != "", len(ids) > 0, all} {
		if set {
			modes++
		}
	}
	switch {
	case modes == 0:
		return dispatch.Request{}, errors.New("one of --test-email, --users or --all is required")
	case modes > 1:
		return dispatch.Request{}, errors.New("--test-email, --users and --all are mutually exclusive")
	case testEmail != "":
		return dispatch.Request{IsTestMode: true, TestEmail: testEmail}, nil
	default:
		return dispatch.Request{SelectedSubscribers: ids}, nil
	}
}

func modeLabel(test bool) string {
	if test {
		return "test"
	}
	return "production"
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/render"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
)

func newBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			view := render.Balance(c.FetchBalance(cmd.Context()))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", view.Amount, view.Unit)
			if view.Degraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "node unavailable, showing default balance")
			}
			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the wallet's transactions in node order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			res := c.FetchHistory(cmd.Context())
			view := render.History(res)
			if !view.Visible {
				return fmt.Errorf("history unavailable (%s): %w", res.Outcome, res.Err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tFROM/TO\tNODE\tAMOUNT")
			for _, row := range view.Rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.Index, row.FromTo, row.Node, row.Amount)
			}
			return tw.Flush()
		},
	}
}

func newSendCmd(opts *options) *cobra.Command {
	var to, amount string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a transaction to another wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			res := c.SubmitTransaction(cmd.Context(), to, amount)
			view := render.Submission(res)
			if res.Outcome != wallet.OutcomeSuccess {
				return errors.New(view.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s -> %s\n", view.Message, amount, domain.Unit, to)
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Recipient wallet id.")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to send.")
	return cmd
}

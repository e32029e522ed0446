package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cashledger-cli",
		Short:         "Cashledger CLI tool",
		Long:          `A command line interface for interacting with the cashledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the cashledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for mutating requests (random when empty)")

	rootCmd.AddCommand(
		accountCmd(opts),
		accountsCmd(opts),
		balanceCmd(opts),
		transactionsCmd(opts),
		depositCmd(opts),
		transferCmd(opts),
		payCmd(opts),
		reconcileCmd(opts),
		consistencyCmd(opts),
	)

	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.timeout)
}

func timestampFlag(cmd *cobra.Command, ts *int64) {
	cmd.Flags().Int64Var(ts, "timestamp", 0, "Logical timestamp in milliseconds (defaults to now)")
}

func resolveTimestamp(cmd *cobra.Command, ts int64) int64 {
	if cmd.Flags().Changed("timestamp") {
		return ts
	}
	return time.Now().UnixMilli()
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("amount must be a positive integer, got %q", s)
	}
	return amount, nil
}

func accountCmd(opts *options) *cobra.Command {
	var ts int64
	cmd := &cobra.Command{
		Use:   "account <account-id>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.client().post(cmd.Context(), "/api/v1/accounts", map[string]any{
				"timestamp":  resolveTimestamp(cmd, ts),
				"account_id": args[0],
			}, opts.idempotencyKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	timestampFlag(cmd, &ts)
	return cmd
}

func accountsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List account ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.client().get(cmd.Context(), "/api/v1/accounts")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func balanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.client().get(cmd.Context(), "/api/v1/accounts/"+url.PathEscape(args[0])+"/balance")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func transactionsCmd(opts *options) *cobra.Command {
	var ts int64
	cmd := &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "Show an account history, crediting cashback due at the timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/accounts/%s/transactions?timestamp=%d", url.PathEscape(args[0]), resolveTimestamp(cmd, ts))
			body, err := opts.client().get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	timestampFlag(cmd, &ts)
	return cmd
}

func depositCmd(opts *options) *cobra.Command {
	var ts int64
	cmd := &cobra.Command{
		Use:   "deposit <account-id> <amount>",
		Short: "Deposit funds into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			body, err := opts.client().post(cmd.Context(), "/api/v1/deposits", map[string]any{
				"timestamp":  resolveTimestamp(cmd, ts),
				"account_id": args[0],
				"amount":     amount,
			}, opts.idempotencyKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	timestampFlag(cmd, &ts)
	return cmd
}

func transferCmd(opts *options) *cobra.Command {
	var ts int64
	cmd := &cobra.Command{
		Use:   "transfer <from-account-id> <to-account-id> <amount>",
		Short: "Transfer funds between accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			body, err := opts.client().post(cmd.Context(), "/api/v1/transfers", map[string]any{
				"timestamp":       resolveTimestamp(cmd, ts),
				"from_account_id": args[0],
				"to_account_id":   args[1],
				"amount":          amount,
			}, opts.idempotencyKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	timestampFlag(cmd, &ts)
	return cmd
}

func payCmd(opts *options) *cobra.Command {
	var ts int64
	cmd := &cobra.Command{
		Use:   "pay <account-id> <amount>",
		Short: "Make a payment that earns cashback",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			body, err := opts.client().post(cmd.Context(), "/api/v1/payments", map[string]any{
				"timestamp":  resolveTimestamp(cmd, ts),
				"account_id": args[0],
				"amount":     amount,
			}, opts.idempotencyKey)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	timestampFlag(cmd, &ts)
	return cmd
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Check ledger consistency and per-account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.client().get(cmd.Context(), "/api/v1/ledger/reconciliation")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func consistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that total balances match the settled ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.client().get(cmd.Context(), "/api/v1/ledger/consistency")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

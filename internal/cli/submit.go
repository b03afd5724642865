package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/core/tx/market"
)

// submit signs build's transaction with the --key signer, applies it and
// prints the outcome. A rejected transaction is returned as an error.
func submit(cmd *cobra.Command, build func(s *signer) (tx.Transaction, error)) error {
	s, err := loadSigner(keyPath)
	if err != nil {
		return err
	}
	t, err := build(s)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	n, err := openNode(ctx, "", true)
	if err != nil {
		return err
	}
	defer n.Close()

	return apply(ctx, cmd, n, s, t)
}

func apply(ctx context.Context, cmd *cobra.Command, n *node, s *signer, t tx.Transaction) error {
	t.GetCommon().Nonce = uint64(time.Now().UnixNano())
	if err := tx.Sign(t, s.keys); err != nil {
		return fmt.Errorf("sign %s: %w", t.TxType(), err)
	}
	res, err := n.svc.Submit(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", t.TxType(), res.Result, hex.EncodeToString(res.Hash[:]))
	return res.Err()
}

func parseAmount(s string) (amount.Amount, error) {
	a, err := amount.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return a, nil
}

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Create the market registry with the signer as admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			return market.NewInitialize(s.id), nil
		})
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy <market-id> <option> <amount>",
	Short: "Stake on an option of an open market",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			amt, err := parseAmount(args[2])
			if err != nil {
				return nil, err
			}
			return market.NewBuyShare(s.id, args[0], args[1], amt), nil
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <market-id> <winning-option>",
	Short: "Resolve a market (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			return market.NewResolve(s.id, args[0], args[1]), nil
		})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <market-id>",
	Short: "Withdraw winnings from a resolved market",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			return market.NewWithdraw(s.id, args[0]), nil
		})
	},
}

var fundAsset string

var fundCmd = &cobra.Command{
	Use:   "fund <address> <amount>",
	Short: "Credit an account with an asset (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			dest, err := entry.ParseAddress(args[0])
			if err != nil {
				return nil, err
			}
			asset, err := entry.ParseAsset(fundAsset)
			if err != nil {
				return nil, err
			}
			amt, err := parseAmount(args[1])
			if err != nil {
				return nil, err
			}
			return market.NewFund(s.id, dest, asset, amt), nil
		})
	},
}

func init() {
	fundCmd.Flags().StringVar(&fundAsset, "asset", "native", "asset mint address or native")
	rootCmd.AddCommand(initializeCmd, buyCmd, resolveCmd, withdrawCmd, fundCmd)
}

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

var (
	balanceAsset  string
	balanceMarket string

	historyAccount string
	historyMarket  string
	historyHash    string
	historyLimit   int
	historyOffset  int
)

// resolveAddress returns the address argument, or the --key signer's.
func resolveAddress(args []string) (entry.Address, error) {
	if len(args) == 1 {
		return entry.ParseAddress(args[0])
	}
	s, err := loadSigner(keyPath)
	if err != nil {
		return entry.Address{}, err
	}
	return s.id, nil
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show an account balance, or its position in a market",
	Long: `Show the balance of an account in --asset. With --market, show the
account's stakes in that market and what a withdrawal would pay now.
The address defaults to the --key signer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveAddress(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		n, err := openNode(ctx, "", false)
		if err != nil {
			return err
		}
		defer n.Close()

		out := cmd.OutOrStdout()
		if balanceMarket != "" {
			p, err := n.svc.Position(ctx, balanceMarket, addr)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Market:    %s\n", p.MarketID)
			fmt.Fprintf(out, "Account:   %s\n", p.User)
			fmt.Fprintf(out, "Stakes:    %s / %s\n", p.StakeA, p.StakeB)
			fmt.Fprintf(out, "Claimable: %s\n", p.Claimable)
			fmt.Fprintf(out, "Withdrawn: %t\n", p.Withdrawn)
			return nil
		}

		asset, err := entry.ParseAsset(balanceAsset)
		if err != nil {
			return err
		}
		bal, err := n.svc.GetBalance(ctx, addr, asset)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", bal, asset)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded transactions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, err := openNode(ctx, "", true)
		if err != nil {
			return err
		}
		defer n.Close()

		var records []relationaldb.TransactionInfo
		if historyHash != "" {
			h, err := relationaldb.ParseHash(historyHash)
			if err != nil {
				return err
			}
			info, err := n.svc.GetTransaction(ctx, h)
			if err != nil {
				return err
			}
			records = append(records, *info)
		} else {
			q := relationaldb.TxQuery{
				MarketID: historyMarket,
				Limit:    historyLimit,
				Offset:   historyOffset,
			}
			if historyAccount != "" {
				addr, err := entry.ParseAddress(historyAccount)
				if err != nil {
					return err
				}
				id := relationaldb.AccountID(addr)
				q.Account = &id
			}
			records, err = n.svc.History(ctx, q)
			if err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTYPE\tACCOUNT\tMARKET\tRESULT\tHASH")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Timestamp.UTC().Format(time.RFC3339), r.TxType, r.Account, r.MarketID, r.Result, r.Hash)
		}
		return w.Flush()
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAsset, "asset", "native", "asset mint address or native")
	balanceCmd.Flags().StringVar(&balanceMarket, "market", "", "show the position in this market instead")

	historyCmd.Flags().StringVar(&historyAccount, "account", "", "only transactions signed by this address")
	historyCmd.Flags().StringVar(&historyMarket, "market", "", "only transactions on this market")
	historyCmd.Flags().StringVar(&historyHash, "hash", "", "show a single transaction")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum number of transactions")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "transactions to skip")

	rootCmd.AddCommand(balanceCmd, historyCmd)
}

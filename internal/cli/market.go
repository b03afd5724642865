package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/core/tx/market"
)

var (
	createBuyToken         string
	createTitle            string
	createDescription      string
	createBannerURL        string
	createResolutionSource string
	createEndTime          int64
	createEndTimeString    string
	createStartTimeString  string

	previewOption string
	previewAmount string
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Create and inspect markets",
}

var marketCreateCmd = &cobra.Command{
	Use:   "create <market-id> <option-a> <option-b>",
	Short: "Create a market (admin only)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, func(s *signer) (tx.Transaction, error) {
			buyToken, err := entry.ParseAsset(createBuyToken)
			if err != nil {
				return nil, err
			}
			c := market.NewCreateMarket(s.id, args[0], args[1], args[2], buyToken)
			c.Title = createTitle
			c.Description = createDescription
			c.BannerURL = createBannerURL
			c.ResolutionSource = createResolutionSource
			c.EndTime = createEndTime
			c.EndTimeString = createEndTimeString
			c.StartTimeString = createStartTimeString
			return c, nil
		})
	},
}

var marketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every market in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, err := openNode(ctx, "", false)
		if err != nil {
			return err
		}
		defer n.Close()

		markets, err := n.svc.ListMarkets(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAUTHORITY")
		for _, m := range markets {
			fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Address)
		}
		return w.Flush()
	},
}

var marketShowCmd = &cobra.Command{
	Use:   "show <market-id>",
	Short: "Show a market record and its shares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, err := openNode(ctx, "", false)
		if err != nil {
			return err
		}
		defer n.Close()

		m, err := n.svc.GetMarket(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Market:      %s\n", m.ID)
		if m.Title != "" {
			fmt.Fprintf(out, "Title:       %s\n", m.Title)
		}
		if m.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", m.Description)
		}
		fmt.Fprintf(out, "Options:     %s / %s\n", m.OptionA, m.OptionB)
		fmt.Fprintf(out, "Resolved:    %t\n", m.Resolved)
		if m.Resolved {
			fmt.Fprintf(out, "Winner:      %s\n", m.Label(m.Outcome))
		}
		fmt.Fprintf(out, "Buy token:   %s\n", m.BuyToken)
		fmt.Fprintf(out, "Authority:   %s (bump %d)\n", m.Authority, m.AuthorityBump)
		fmt.Fprintf(out, "Mints:       %s / %s\n", m.TokenAMint, m.TokenBMint)
		fmt.Fprintf(out, "Pools:       %s / %s (total %s)\n", m.TotalOptionA, m.TotalOptionB, m.TotalValue)
		if m.ResolutionSource != "" {
			fmt.Fprintf(out, "Source:      %s\n", m.ResolutionSource)
		}
		if m.StartTimeString != "" || m.EndTimeString != "" {
			fmt.Fprintf(out, "Window:      %s - %s\n", m.StartTimeString, m.EndTimeString)
		}
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tOPTION\tAMOUNT\tWITHDRAWN")
		for _, s := range m.Shares {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", s.User, s.Option, s.Amount, s.HasWithdrawn)
		}
		return w.Flush()
	},
}

var marketStatsCmd = &cobra.Command{
	Use:   "stats <market-id>",
	Short: "Show pool totals, odds and implied probabilities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		n, err := openNode(ctx, "", false)
		if err != nil {
			return err
		}
		defer n.Close()

		st, err := n.svc.MarketStats(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Market:      %s\n", st.ID)
		fmt.Fprintf(out, "Resolved:    %t\n", st.Resolved)
		if st.Resolved {
			fmt.Fprintf(out, "Winner:      %s\n", st.Winner)
		}
		fmt.Fprintf(out, "Total:       %s\n", st.TotalValue)
		fmt.Fprintf(out, "Bets:        %d\n", st.NumBettors)
		fmt.Fprintf(out, "Commission:  %s\n", st.Commission)
		fmt.Fprintf(out, "%-12s %s pool=%s odds=%s p=%s\n", "Option A:", st.OptionA, st.TotalOptionA, st.OddsA, st.ProbabilityA)
		fmt.Fprintf(out, "%-12s %s pool=%s odds=%s p=%s\n", "Option B:", st.OptionB, st.TotalOptionB, st.OddsB, st.ProbabilityB)

		if previewOption != "" {
			amt, err := parseAmount(previewAmount)
			if err != nil {
				return err
			}
			p, err := n.svc.PotentialPayout(ctx, args[0], previewOption, amt)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Payout:      %s on %s returns %s\n", amt, previewOption, p)
		}
		return nil
	},
}

func init() {
	f := marketCreateCmd.Flags()
	f.StringVar(&createBuyToken, "buy-token", "native", "asset stakes are paid in")
	f.StringVar(&createTitle, "title", "", "market title")
	f.StringVar(&createDescription, "description", "", "market description")
	f.StringVar(&createBannerURL, "banner-url", "", "banner image URL")
	f.StringVar(&createResolutionSource, "resolution-source", "", "where the outcome will be read from")
	f.Int64Var(&createEndTime, "end-time", 0, "advisory end time (unix seconds)")
	f.StringVar(&createEndTimeString, "end-time-string", "", "end time as displayed")
	f.StringVar(&createStartTimeString, "start-time-string", "", "start time as displayed")

	marketStatsCmd.Flags().StringVar(&previewOption, "preview-option", "", "preview the payout of a stake on this option")
	marketStatsCmd.Flags().StringVar(&previewAmount, "preview-amount", "0", "stake to preview")

	marketCmd.AddCommand(marketCreateCmd, marketListCmd, marketShowCmd, marketStatsCmd)
	rootCmd.AddCommand(marketCmd)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/solcastd/internal/core/ledger/service"
	"github.com/LeJamon/solcastd/internal/replay"
)

var (
	replayTarget  string
	replayWorkers int
)

// errReplayMismatch is returned when a replayed result differs from history.
var errReplayMismatch = errors.New("replay diverged from recorded history")

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild a ledger from recorded history and verify every result",
	Long: `Replay reads the configured transaction history, re-applies every
recorded transaction to a fresh ledger at --target and compares each result
with the recorded one.

Markets that share no depositor are replayed concurrently; registry and
funding transactions act as barriers.

Example:
    solcastd replay --conf solcastd.toml --target ./rebuilt
    solcastd replay --target ./rebuilt --workers 8`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayTarget, "target", "", "directory of the ledger to rebuild (must be empty)")
	replayCmd.Flags().IntVar(&replayWorkers, "workers", 4, "markets replayed at once (0 for unbounded)")
	_ = replayCmd.MarkFlagRequired("target")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	source, err := openNode(ctx, "", true)
	if err != nil {
		return err
	}
	defer source.Close()
	if source.history == nil {
		return fmt.Errorf("replay: %w", service.ErrNoHistory)
	}

	records, err := replay.Load(ctx, source.history)
	if err != nil {
		return err
	}
	stages, err := replay.Plan(records)
	if err != nil {
		return err
	}

	target, err := openNode(ctx, replayTarget, false)
	if err != nil {
		return err
	}
	defer target.Close()
	if _, err := target.svc.GetRegistry(ctx); !errors.Is(err, service.ErrNotInitialized) {
		if err == nil {
			return fmt.Errorf("target ledger %s is not empty", replayTarget)
		}
		return err
	}

	fmt.Fprintf(out, "Backend:      %s\n", source.cfg.Storage.Backend)
	fmt.Fprintf(out, "Target:       %s\n", replayTarget)
	fmt.Fprintf(out, "Transactions: %d\n", len(records))

	report, err := replay.NewRunner(target.engine, replayWorkers, target.log).Run(ctx, stages)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Stages:       %d\n", report.Stages)
	fmt.Fprintf(out, "Groups:       %d\n", report.Groups)
	fmt.Fprintf(out, "Duration:     %v\n", report.Duration)
	if report.Success() {
		fmt.Fprintln(out, "All results match.")
		return nil
	}
	fmt.Fprintf(out, "Mismatches:   %d\n", len(report.Mismatches))
	for _, m := range report.Mismatches {
		fmt.Fprintf(out, "  #%d %s %s expected=%s got=%s\n", m.Seq, m.TxType, m.Hash, m.Expected, m.Got)
	}
	return errReplayMismatch
}


// Package replay re-applies recorded transaction history to a ledger and
// reports every transaction whose result differs from the recorded one.
//
// Transactions touching the registry or arbitrary balances (Initialize,
// CreateMarket, Fund) are barriers and run alone. Between two barriers,
// market transactions are split into independent groups: markets sharing a
// depositor fall into the same group, every group keeps recorded order, and
// groups run concurrently.
package replay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/tx"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// ErrNoRawTransaction is returned when a history record carries no encoded transaction.
var ErrNoRawTransaction = errors.New("history record has no raw transaction")

// Step is one recorded transaction, decoded.
type Step struct {
	Seq  int
	Info relationaldb.TransactionInfo
	Tx   tx.Transaction
}

// Stage is a set of groups that may run concurrently. Steps within a group
// run in order.
type Stage [][]Step

// Mismatch is a transaction whose replayed result differs from the record.
type Mismatch struct {
	Seq      int
	Hash     relationaldb.Hash
	TxType   string
	Expected string
	Got      string
}

// Report summarizes a replay.
type Report struct {
	Transactions int
	Stages       int
	Groups       int
	Mismatches   []Mismatch
	Duration     time.Duration
}

// Success reports whether every replayed result matched.
func (r *Report) Success() bool {
	return len(r.Mismatches) == 0
}

// Load reads the full history, oldest first.
func Load(ctx context.Context, repo relationaldb.TransactionRepository) ([]relationaldb.TransactionInfo, error) {
	var all []relationaldb.TransactionInfo
	for offset := 0; ; offset += relationaldb.DefaultQueryLimit {
		page, err := repo.GetTransactions(ctx, relationaldb.TxQuery{
			Limit:  relationaldb.DefaultQueryLimit,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		all = append(all, page...)
		if len(page) < relationaldb.DefaultQueryLimit {
			break
		}
	}
	slices.Reverse(all)
	return all, nil
}

// Plan decodes records (oldest first) and splits them into stages.
func Plan(records []relationaldb.TransactionInfo) ([]Stage, error) {
	var (
		stages []Stage
		run    []Step
	)
	flush := func() {
		if len(run) > 0 {
			stages = append(stages, partition(run))
			run = nil
		}
	}

	for i, info := range records {
		if len(info.RawTxn) == 0 {
			return nil, fmt.Errorf("record %s: %w", info.Hash, ErrNoRawTransaction)
		}
		t, err := tx.Decode(info.RawTxn)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", info.Hash, err)
		}
		step := Step{Seq: i, Info: info, Tx: t}

		if isBarrier(t) {
			flush()
			stages = append(stages, Stage{{step}})
			continue
		}
		run = append(run, step)
	}
	flush()
	return stages, nil
}

func isBarrier(t tx.Transaction) bool {
	switch t.TxType() {
	case tx.TypeBuyShare, tx.TypeWithdraw, tx.TypeResolve:
		_, ok := t.(tx.MarketScoped)
		return !ok
	default:
		return true
	}
}

// movesSignerFunds reports whether t reads or writes the signer's balances.
// Resolve only touches the market record.
func movesSignerFunds(t tx.Transaction) bool {
	return t.TxType() != tx.TypeResolve
}

// partition groups a run of market transactions into independent groups
// using union-find over market ids, joined through shared depositors.
func partition(run []Step) Stage {
	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		if p, ok := parent[x]; ok && p != x {
			r := find(p)
			parent[x] = r
			return r
		}
		parent[x] = x
		return x
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	firstMarket := make(map[entry.Address]string)
	for _, s := range run {
		market := s.Tx.(tx.MarketScoped).MarketKey()
		find(market)
		if !movesSignerFunds(s.Tx) {
			continue
		}
		signer := s.Tx.GetCommon().Account
		if m, ok := firstMarket[signer]; ok {
			union(m, market)
		} else {
			firstMarket[signer] = market
		}
	}

	index := make(map[string]int)
	var stage Stage
	for _, s := range run {
		root := find(s.Tx.(tx.MarketScoped).MarketKey())
		i, ok := index[root]
		if !ok {
			i = len(stage)
			index[root] = i
			stage = append(stage, nil)
		}
		stage[i] = append(stage[i], s)
	}
	return stage
}

// Runner applies planned stages through an engine.
type Runner struct {
	engine  *tx.Engine
	workers int
	log     *logging.Logger
}

// NewRunner creates a runner. workers bounds the groups applied at once;
// zero or less means unbounded.
func NewRunner(engine *tx.Engine, workers int, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NewTestLogger()
	}
	return &Runner{engine: engine, workers: workers, log: log.Named("replay")}
}

// Run applies every stage in order and compares results.
func (r *Runner) Run(ctx context.Context, stages []Stage) (*Report, error) {
	start := time.Now()
	report := &Report{Stages: len(stages)}
	var mu sync.Mutex

	for _, stage := range stages {
		g, gctx := errgroup.WithContext(ctx)
		if r.workers > 0 {
			g.SetLimit(r.workers)
		}
		for _, group := range stage {
			group := group
			g.Go(func() error {
				for _, step := range group {
					if err := gctx.Err(); err != nil {
						return err
					}
					res := r.engine.Apply(gctx, step.Tx)
					mu.Lock()
					report.Transactions++
					if res.Result.String() != step.Info.Result {
						report.Mismatches = append(report.Mismatches, Mismatch{
							Seq:      step.Seq,
							Hash:     step.Info.Hash,
							TxType:   step.Info.TxType,
							Expected: step.Info.Result,
							Got:      res.Result.String(),
						})
					}
					mu.Unlock()
				}
				return nil
			})
		}
		report.Groups += len(stage)
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(report.Mismatches, func(a, b Mismatch) int { return a.Seq - b.Seq })
	report.Duration = time.Since(start)
	r.log.Info("replay finished",
		logging.Int("transactions", report.Transactions),
		logging.Int("groups", report.Groups),
		logging.Int("mismatches", len(report.Mismatches)),
	)
	return report, nil
}

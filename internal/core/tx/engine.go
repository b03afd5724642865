package tx

import (
	"context"
	"time"

	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
	"github.com/LeJamon/solcastd/internal/core/ledger/keylet"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// maxKeyAttempts bounds how often the engine widens a write set that changed
// while it was waiting for locks.
const maxKeyAttempts = 3

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// ProgramID seeds every derived market address
	ProgramID entry.Address

	// SkipSignatureVerification skips signature checks (for testing/replay)
	SkipSignatureVerification bool
}

// Engine processes transactions against a ledger store
type Engine struct {
	store   *ledger.Store
	config  EngineConfig
	log     *logging.Logger
	clock   Clock
	history HistoryRecorder
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock sets the clock stamped on history records.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithHistory records every transaction that reaches the apply stage.
func WithHistory(h HistoryRecorder) Option {
	return func(e *Engine) { e.history = h }
}

// WithMetrics enables engine metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a new transaction engine
func NewEngine(store *ledger.Store, config EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		config: config,
		clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.NewTestLogger()
	}
	e.log = e.log.Named("engine")
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Store returns the ledger store the engine writes to.
func (e *Engine) Store() *ledger.Store {
	return e.store
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Hash is the transaction id
	Hash [32]byte

	// Applied indicates the ledger changed
	Applied bool

	// Message is a human-readable result message
	Message string

	// Detail optionally explains a preflight failure
	Detail string
}

// Err returns nil when the transaction applied, else a *ResultError.
func (r ApplyResult) Err() error {
	if r.Result.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r.Result, Detail: r.Detail}
}

// Apply processes a transaction and applies it to the ledger. Either every
// change the transaction makes is committed or none is.
func (e *Engine) Apply(ctx context.Context, t Transaction) ApplyResult {
	start := time.Now()

	hash, err := Hash(t)
	if err != nil {
		return e.finish(t, ApplyResult{Result: TemMALFORMED, Detail: err.Error()}, start)
	}

	// Step 1: Preflight checks (no ledger access)
	res, detail := e.preflight(t)
	if !res.IsSuccess() {
		return e.finish(t, ApplyResult{Result: res, Hash: hash, Detail: detail}, start)
	}

	// Step 2: Lock the write set and apply
	paid, res, detail := e.doApply(ctx, t, hash)
	e.metrics.paid(paid)

	result := e.finish(t, ApplyResult{
		Result:  res,
		Hash:    hash,
		Applied: res.IsSuccess(),
		Detail:  detail,
	}, start)
	e.record(ctx, t, result)
	return result
}

func (e *Engine) preflight(t Transaction) (Result, string) {
	common := t.GetCommon()
	if common.TransactionType != t.TxType() {
		return TemMALFORMED, "transaction type does not match its body"
	}
	if _, err := NewFromType(t.TxType()); err != nil {
		return TemUNKNOWN, err.Error()
	}
	if _, ok := t.(Appliable); !ok {
		return TemUNKNOWN, "transaction cannot be applied"
	}
	if err := common.Validate(); err != nil {
		return ResultOf(err), err.Error()
	}
	if err := t.Validate(); err != nil {
		return ResultOf(err), err.Error()
	}
	if !e.config.SkipSignatureVerification {
		if res := VerifySignature(t); !res.IsSuccess() {
			return res, ""
		}
	}
	return TesSUCCESS, ""
}

func (e *Engine) doApply(ctx context.Context, t Transaction, hash [32]byte) (uint64, Result, string) {
	applied := keylet.AppliedTx(hash)
	keys, unlock, res, detail := e.lockKeys(ctx, t, applied)
	if !res.IsSuccess() {
		return 0, res, detail
	}
	defer unlock()

	seen, err := e.store.Exists(ctx, applied)
	if err != nil {
		e.log.Error("applied lookup failed", logging.Hash("hash", hash), logging.Error(err))
		return 0, TefINTERNAL, err.Error()
	}
	if seen {
		return 0, TefALREADY, ""
	}

	table := e.store.NewStateTable(ctx)
	table.Restrict(keys)

	actx := &ApplyContext{
		Ctx:       ctx,
		View:      table,
		Account:   t.GetCommon().Account,
		ProgramID: e.config.ProgramID,
		TxHash:    hash,
		Now:       e.clock.Now(),
		Log:       e.log,
	}

	res = t.(Appliable).Apply(actx)
	if !res.IsSuccess() {
		table.Discard()
		return 0, res, ""
	}
	marker := &entry.AppliedTx{
		Account:   actx.Account,
		TxType:    uint16(t.TxType()),
		AppliedAt: actx.Now.Unix(),
	}
	if err := table.InsertEntry(applied, marker); err != nil {
		table.Discard()
		e.log.Error("mark applied failed", logging.Hash("hash", hash), logging.Error(err))
		return 0, TefINTERNAL, err.Error()
	}
	if err := table.Commit(); err != nil {
		e.log.Error("commit failed", logging.Hash("hash", hash), logging.Error(err))
		return 0, TefINTERNAL, err.Error()
	}
	return actx.Paid.Uint64(), TesSUCCESS, ""
}

// lockKeys locks the write set of t plus extra. The set is computed once
// before locking and again under the locks; if a concurrent commit changed
// it, the engine retries with the union.
func (e *Engine) lockKeys(ctx context.Context, t Transaction, extra ...keylet.Keylet) ([]keylet.Keylet, func(), Result, string) {
	kc := &KeyContext{Ctx: ctx, View: e.store, ProgramID: e.config.ProgramID}

	keys, err := t.Keys(kc)
	if err != nil {
		return nil, nil, ResultOf(err), err.Error()
	}
	keys = append(keys, extra...)
	for attempt := 1; ; attempt++ {
		unlock := e.store.Lock(keys...)
		again, err := t.Keys(kc)
		if err != nil {
			unlock()
			return nil, nil, ResultOf(err), err.Error()
		}
		missing := missingKeys(keys, again)
		if len(missing) == 0 {
			return keys, unlock, TesSUCCESS, ""
		}
		unlock()
		if attempt >= maxKeyAttempts {
			return nil, nil, TefINTERNAL, "write set did not settle"
		}
		keys = append(keys, missing...)
	}
}

// missingKeys returns the keys of want that are not in have.
func missingKeys(have, want []keylet.Keylet) []keylet.Keylet {
	set := make(map[[32]byte]struct{}, len(have))
	for _, k := range have {
		set[k.Key] = struct{}{}
	}
	var out []keylet.Keylet
	for _, k := range want {
		if _, ok := set[k.Key]; !ok {
			set[k.Key] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func (e *Engine) finish(t Transaction, r ApplyResult, start time.Time) ApplyResult {
	r.Message = r.Result.Message()
	e.metrics.observe(t.TxType(), r.Result)

	fields := []logging.Field{
		logging.Stringer("type", t.TxType()),
		logging.Stringer("account", t.GetCommon().Account),
		logging.Stringer("result", r.Result),
		logging.Hash("hash", r.Hash),
		logging.Duration("elapsed", time.Since(start)),
	}
	if r.Detail != "" {
		fields = append(fields, logging.String("detail", r.Detail))
	}
	if r.Applied {
		e.log.Debug("transaction applied", fields...)
	} else {
		e.log.Info("transaction rejected", fields...)
	}
	return r
}

// record saves r to history. History is an audit trail, so a failure here is
// logged and never changes the result.
func (e *Engine) record(ctx context.Context, t Transaction, r ApplyResult) {
	if e.history == nil {
		return
	}
	raw, err := Encode(t)
	if err != nil {
		e.log.Warn("encode for history failed", logging.Hash("hash", r.Hash), logging.Error(err))
	}
	info := &relationaldb.TransactionInfo{
		Hash:       relationaldb.Hash(r.Hash),
		TxType:     t.TxType().String(),
		Account:    relationaldb.AccountID(t.GetCommon().Account),
		Result:     r.Result.String(),
		ResultCode: int(r.Result),
		Timestamp:  e.clock.Now(),
		RawTxn:     raw,
	}
	if ms, ok := t.(MarketScoped); ok {
		info.MarketID = ms.MarketKey()
	}
	if err := e.history.SaveTransaction(ctx, info); err != nil {
		e.log.Warn("history save failed", logging.Hash("hash", r.Hash), logging.Error(err))
	}
}

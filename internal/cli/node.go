package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/LeJamon/solcastd/internal/config"
	"github.com/LeJamon/solcastd/internal/core/ledger"
	"github.com/LeJamon/solcastd/internal/core/ledger/service"
	"github.com/LeJamon/solcastd/internal/core/tx"
	_ "github.com/LeJamon/solcastd/internal/core/tx/all"
	"github.com/LeJamon/solcastd/internal/logging"
	"github.com/LeJamon/solcastd/internal/storage"
	"github.com/LeJamon/solcastd/internal/storage/database"
	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

// node is everything a single command invocation needs, opened from config.
type node struct {
	cfg      *config.Config
	log      *logging.Logger
	mgr      database.Manager
	store    *ledger.Store
	history  relationaldb.Database
	registry *prometheus.Registry
	engine   *tx.Engine
	svc      *service.Service
}

func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}

	log := logging.NewLoggerFromEnv(cfg.Log.Env)
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		level = logging.DebugLevel
	}
	log.SetLevel(level)
	return cfg, log, nil
}

// openNode opens the ledger at dir (data_dir/ledger when empty) and the
// configured history store.
func openNode(ctx context.Context, dir string, withHistory bool) (*node, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = cfg.LedgerPath()
	}
	n := &node{cfg: cfg, log: log, registry: prometheus.NewRegistry()}

	n.mgr, err = storage.OpenManager(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, err
	}
	db, err := n.mgr.OpenDB("ledger")
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	n.store, err = ledger.NewStore(db, ledger.StoreConfig{
		CacheSize:         cfg.Storage.CacheSize,
		CompressThreshold: cfg.Storage.CompressThreshold,
	}, log)
	if err != nil {
		n.Close()
		return nil, err
	}

	if withHistory {
		n.history, err = storage.OpenHistory(ctx, cfg.HistoryDB())
		if err != nil {
			n.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	programID, err := cfg.ProgramAddress()
	if err != nil {
		n.Close()
		return nil, err
	}
	metrics, err := tx.NewMetrics(n.registry)
	if err != nil {
		n.Close()
		return nil, err
	}
	opts := []tx.Option{tx.WithLogger(log), tx.WithMetrics(metrics)}
	if n.history != nil {
		opts = append(opts, tx.WithHistory(n.history))
	}
	n.engine = tx.NewEngine(n.store, tx.EngineConfig{
		ProgramID:                 programID,
		SkipSignatureVerification: cfg.Engine.SkipSignatureVerification,
	}, opts...)

	svcCfg := service.Config{Store: n.store, Engine: n.engine, Logger: log}
	if n.history != nil {
		svcCfg.History = n.history
	}
	n.svc, err = service.New(svcCfg)
	if err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// Close releases the databases and writes metrics when requested.
func (n *node) Close() error {
	var errs []error
	if metricsFile != "" && n.registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, n.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if n.history != nil {
		errs = append(errs, n.history.Close(context.Background()))
	}
	if n.mgr != nil {
		errs = append(errs, n.mgr.Close())
	}
	n.log.AtExit()
	return errors.Join(errs...)
}

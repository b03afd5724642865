package tx

import (
	"context"

	"github.com/LeJamon/solcastd/internal/storage/relationaldb"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/history_mock.go -package mocks github.com/LeJamon/solcastd/internal/core/tx HistoryRecorder

// HistoryRecorder receives every transaction that reached the apply stage.
// relationaldb.Database satisfies it.
type HistoryRecorder interface {
	SaveTransaction(ctx context.Context, info *relationaldb.TransactionInfo) error
}

// MarketScoped is implemented by transactions that target a single market,
// so history can be filtered by market id.
type MarketScoped interface {
	MarketKey() string
}

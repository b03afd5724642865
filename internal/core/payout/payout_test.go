package payout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
)

var (
	alice = entry.Address{0xa}
	bob   = entry.Address{0xb}
	carol = entry.Address{0xc}
)

type stake struct {
	user   entry.Address
	option string
	amt    amount.Amount
}

func resolvedMarket(t *testing.T, winner entry.Outcome, stakes ...stake) *entry.Market {
	t.Helper()
	m := &entry.Market{ID: "m1", OptionA: "Yes", OptionB: "No"}
	for _, s := range stakes {
		require.NoError(t, m.AddStake(s.user, s.option, s.amt))
	}
	m.Resolve(winner)
	return m
}

func TestShareGross(t *testing.T) {
	tests := []struct {
		name        string
		stake, w, l amount.Amount
		want        amount.Amount
	}{
		{name: "even pools", stake: 100, w: 100, l: 100, want: 200},
		{name: "scenario m1", stake: 100, w: 100, l: 300, want: 400},
		{name: "truncates", stake: 1, w: 3, l: 1, want: 1},
		{name: "pro rata", stake: 50, w: 150, l: 100, want: 83},
		{name: "no losers", stake: 70, w: 70, l: 0, want: 70},
		{name: "empty winning pool", stake: 70, w: 0, l: 500, want: 70},
		{name: "wide intermediate", stake: 1 << 40, w: 1 << 40, l: 1 << 40, want: 1 << 41},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShareGross(tt.stake, tt.w, tt.l)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommission(t *testing.T) {
	c, err := Commission(400, 100)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(20), c)

	c, err = Commission(19, 100)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(0), c, "floor(19*0.05) is zero")

	c, err = Commission(400, 0)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(0), c)
}

func TestSettleScenario(t *testing.T) {
	m := resolvedMarket(t, entry.OutcomeOptionA,
		stake{alice, "Yes", 100},
		stake{bob, "No", 300},
	)

	s, found, err := Settle(m, alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, amount.Amount(400), s.Gross)
	assert.Equal(t, amount.Amount(20), s.Commission)
	assert.Equal(t, amount.Amount(380), s.Net)
	assert.Equal(t, []int{0}, s.Shares)

	s, found, err = Settle(m, bob)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, s.Shares)
}

func TestSettleCommissionOncePerWithdrawal(t *testing.T) {
	// two shares of 7 each: per-share commission would be 2*floor(14*0.05)=0,
	// one commission on the sum 28 is floor(1.4)=1
	m := resolvedMarket(t, entry.OutcomeOptionB,
		stake{alice, "No", 7},
		stake{alice, "No", 7},
		stake{bob, "Yes", 14},
	)

	s, _, err := Settle(m, alice)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(28), s.Gross)
	assert.Equal(t, amount.Amount(1), s.Commission)
	assert.Equal(t, amount.Amount(27), s.Net)
	assert.Equal(t, []int{0, 1}, s.Shares)
}

func TestSettleSkipsWithdrawnShares(t *testing.T) {
	m := resolvedMarket(t, entry.OutcomeOptionA,
		stake{alice, "Yes", 100},
		stake{alice, "Yes", 100},
		stake{carol, "No", 200},
	)
	m.Shares[0].HasWithdrawn = true

	s, found, err := Settle(m, alice)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1}, s.Shares)
	assert.Equal(t, amount.Amount(200), s.Gross)

	m.Shares[1].HasWithdrawn = true
	s, found, err = Settle(m, alice)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, s.Shares)
	assert.Equal(t, amount.Amount(0), s.Net)
}

func TestSettleNeverExceedsPool(t *testing.T) {
	m := resolvedMarket(t, entry.OutcomeOptionA,
		stake{alice, "Yes", 33},
		stake{bob, "Yes", 33},
		stake{carol, "Yes", 34},
		stake{carol, "No", 101},
	)

	var paid amount.Amount
	for _, u := range []entry.Address{alice, bob, carol} {
		s, _, err := Settle(m, u)
		require.NoError(t, err)
		paid += s.Net
	}
	assert.LessOrEqual(t, paid, m.TotalValue)
}

func TestPreview(t *testing.T) {
	m := &entry.Market{ID: "m1", OptionA: "Yes", OptionB: "No"}
	require.NoError(t, m.AddStake(bob, "No", 300))

	got, err := Preview(m, entry.OutcomeOptionA, 100)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(380), got)

	got, err = Preview(m, entry.OutcomeOptionB, 100)
	require.NoError(t, err)
	assert.Equal(t, amount.Amount(95), got, "no losing pool yet")
}

func TestComputeOdds(t *testing.T) {
	m := &entry.Market{ID: "m1", OptionA: "Yes", OptionB: "No"}
	odds := ComputeOdds(m)
	assert.True(t, odds.OddsA.IsZero())
	assert.True(t, odds.ProbabilityB.IsZero())

	require.NoError(t, m.AddStake(alice, "Yes", 100))
	require.NoError(t, m.AddStake(bob, "No", 300))
	odds = ComputeOdds(m)
	assert.True(t, decimal.NewFromInt(3).Equal(odds.OddsA), odds.OddsA.String())
	assert.Equal(t, "0.333333", odds.OddsB.String())
	assert.Equal(t, "0.25", odds.ProbabilityA.String())
	assert.Equal(t, "0.75", odds.ProbabilityB.String())
}

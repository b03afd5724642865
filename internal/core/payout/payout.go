// Package payout implements the pari-mutuel settlement math: each winning
// stake gets its own amount back plus its pro-rata slice of the losing pool,
// and a flat commission is taken once per withdrawal.
package payout

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/solcastd/internal/core/amount"
	"github.com/LeJamon/solcastd/internal/core/ledger/entry"
)

// CommissionBasisPoints is the 5% commission taken from every withdrawal.
const CommissionBasisPoints = 500

// Settlement is the outcome of one withdrawal.
type Settlement struct {
	Gross      amount.Amount
	Commission amount.Amount
	Net        amount.Amount
	// Shares holds the indexes of the market shares settled.
	Shares []int
}

// ShareGross returns stake + floor(stake*losing/winning), or just the stake
// when the winning pool is empty.
func ShareGross(stake, winningPool, losingPool amount.Amount) (amount.Amount, error) {
	if winningPool == 0 {
		return stake, nil
	}
	bonus, err := amount.MulDiv(stake, losingPool, winningPool)
	if err != nil {
		return 0, err
	}
	return stake.Add(bonus)
}

// Commission returns the commission owed on a gross payout. No commission is
// charged when the winning pool was empty.
func Commission(gross, winningPool amount.Amount) (amount.Amount, error) {
	if winningPool == 0 {
		return 0, nil
	}
	return gross.BasisPoints(CommissionBasisPoints)
}

// Settle computes the withdrawal of user on a resolved market. found reports
// whether the user has any share on the winning label at all; the returned
// settlement lists only shares not yet withdrawn.
func Settle(m *entry.Market, user entry.Address) (s Settlement, found bool, err error) {
	winning := m.Outcome
	label := m.Label(winning)
	w := m.Pool(winning)
	l := m.Pool(opposite(winning))

	for i, share := range m.Shares {
		if share.User != user || share.Option != label {
			continue
		}
		found = true
		if share.HasWithdrawn {
			continue
		}
		g, err := ShareGross(share.Amount, w, l)
		if err != nil {
			return Settlement{}, found, err
		}
		if s.Gross, err = s.Gross.Add(g); err != nil {
			return Settlement{}, found, err
		}
		s.Shares = append(s.Shares, i)
	}

	if s.Commission, err = Commission(s.Gross, w); err != nil {
		return Settlement{}, found, err
	}
	s.Net = s.Gross - s.Commission
	return s, found, nil
}

// Preview estimates the net payout of staking stake on outcome o now, should
// o win. The stake is counted into the winning pool.
func Preview(m *entry.Market, o entry.Outcome, stake amount.Amount) (amount.Amount, error) {
	w, err := m.Pool(o).Add(stake)
	if err != nil {
		return 0, err
	}
	gross, err := ShareGross(stake, w, m.Pool(opposite(o)))
	if err != nil {
		return 0, err
	}
	commission, err := Commission(gross, w)
	if err != nil {
		return 0, err
	}
	return gross - commission, nil
}

// Odds holds the display ratios of a market.
type Odds struct {
	// OddsA is the profit per unit staked on A: totalB/totalA.
	OddsA decimal.Decimal
	OddsB decimal.Decimal
	// ProbabilityA is the pool share staked on A: totalA/total.
	ProbabilityA decimal.Decimal
	ProbabilityB decimal.Decimal
}

// OddsPrecision is the number of decimal places odds are rounded to.
const OddsPrecision = 6

// ComputeOdds derives odds and implied probabilities from the pool totals.
// Ratios with an empty denominator are zero.
func ComputeOdds(m *entry.Market) Odds {
	a := fromAmount(m.TotalOptionA)
	b := fromAmount(m.TotalOptionB)
	total := a.Add(b)

	return Odds{
		OddsA:        ratio(b, a),
		OddsB:        ratio(a, b),
		ProbabilityA: ratio(a, total),
		ProbabilityB: ratio(b, total),
	}
}

// fromAmount goes through big.Int since decimal has no uint64 constructor.
func fromAmount(a amount.Amount) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(a.Uint64()), 0)
}

func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, OddsPrecision)
}

func opposite(o entry.Outcome) entry.Outcome {
	switch o {
	case entry.OutcomeOptionA:
		return entry.OutcomeOptionB
	case entry.OutcomeOptionB:
		return entry.OutcomeOptionA
	default:
		return entry.OutcomeUnresolved
	}
}

package entry

import (
	"errors"
	"fmt"

	"github.com/LeJamon/solcastd/internal/core/amount"
)

var (
	ErrUnknownOption      = errors.New("option is not one of the market's labels")
	ErrOutcomeMismatch    = errors.New("market: resolved flag disagrees with outcome")
	ErrPoolsUnbalanced    = errors.New("market: option pools do not add up to total value")
	ErrSharesUnbalanced   = errors.New("market: shares do not add up to total value")
	ErrInvalidShareOption = errors.New("market: share placed on unknown option")
)

// Share is a single deposit. A depositor may hold many.
type Share struct {
	User         Address       `codec:"user"`
	Option       string        `codec:"option"`
	Amount       amount.Amount `codec:"amount"`
	HasWithdrawn bool          `codec:"has_withdrawn"`
}

// Market is a two-outcome pari-mutuel pool.
type Market struct {
	ID       string  `codec:"id"`
	OptionA  string  `codec:"option_a"`
	OptionB  string  `codec:"option_b"`
	Resolved bool    `codec:"resolved"`
	Outcome  Outcome `codec:"outcome"`
	EndTime  int64   `codec:"end_time"`

	TotalValue   amount.Amount `codec:"total_value"`
	TotalOptionA amount.Amount `codec:"total_option_a"`
	TotalOptionB amount.Amount `codec:"total_option_b"`
	// NumBettors counts buy_share events, not distinct depositors.
	NumBettors uint64 `codec:"num_bettors"`

	Authority     Address `codec:"authority"`
	AuthorityBump uint8   `codec:"authority_bump"`
	BuyToken      Asset   `codec:"buy_token"`
	TokenAMint    Asset   `codec:"token_a_mint"`
	TokenBMint    Asset   `codec:"token_b_mint"`

	Title            string `codec:"title"`
	Description      string `codec:"description"`
	BannerURL        string `codec:"banner_url"`
	ResolutionSource string `codec:"resolution_source"`
	EndTimeString    string `codec:"end_time_string"`
	StartTimeString  string `codec:"start_time_string"`

	// CommissionCollected is the commission retained in escrow by withdrawals.
	CommissionCollected amount.Amount `codec:"commission_collected"`

	Shares []Share `codec:"shares"`
}

func (m *Market) Type() Type { return TypeMarket }

// Validate checks the structural invariants of a market record.
func (m *Market) Validate() error {
	if !m.Outcome.Valid() || m.Resolved != (m.Outcome != OutcomeUnresolved) {
		return ErrOutcomeMismatch
	}
	pools, err := m.TotalOptionA.Add(m.TotalOptionB)
	if err != nil || pools != m.TotalValue {
		return ErrPoolsUnbalanced
	}
	var sum amount.Amount
	for i, s := range m.Shares {
		if _, err := m.OutcomeFor(s.Option); err != nil {
			return fmt.Errorf("%w: share %d", ErrInvalidShareOption, i)
		}
		if sum, err = sum.Add(s.Amount); err != nil {
			return ErrSharesUnbalanced
		}
	}
	if sum != m.TotalValue {
		return ErrSharesUnbalanced
	}
	return nil
}

// OutcomeFor maps an option label to its outcome variant.
func (m *Market) OutcomeFor(label string) (Outcome, error) {
	switch label {
	case m.OptionA:
		return OutcomeOptionA, nil
	case m.OptionB:
		return OutcomeOptionB, nil
	default:
		return OutcomeUnresolved, ErrUnknownOption
	}
}

// Label returns the option label of a resolved outcome, or "" when unresolved.
func (m *Market) Label(o Outcome) string {
	switch o {
	case OutcomeOptionA:
		return m.OptionA
	case OutcomeOptionB:
		return m.OptionB
	default:
		return ""
	}
}

// Pool returns the pool total staked on outcome o.
func (m *Market) Pool(o Outcome) amount.Amount {
	switch o {
	case OutcomeOptionA:
		return m.TotalOptionA
	case OutcomeOptionB:
		return m.TotalOptionB
	default:
		return 0
	}
}

// OptionMint returns the receipt-token mint for outcome o.
func (m *Market) OptionMint(o Outcome) Asset {
	if o == OutcomeOptionB {
		return m.TokenBMint
	}
	return m.TokenAMint
}

// AddStake records a deposit: it appends the share and grows the matching
// pool and the total. Nothing is modified when an error is returned.
func (m *Market) AddStake(user Address, option string, amt amount.Amount) error {
	o, err := m.OutcomeFor(option)
	if err != nil {
		return err
	}
	total, err := m.TotalValue.Add(amt)
	if err != nil {
		return err
	}
	pool, err := m.Pool(o).Add(amt)
	if err != nil {
		return err
	}

	m.TotalValue = total
	if o == OutcomeOptionA {
		m.TotalOptionA = pool
	} else {
		m.TotalOptionB = pool
	}
	m.Shares = append(m.Shares, Share{User: user, Option: option, Amount: amt})
	m.NumBettors++
	return nil
}

// Resolve moves the market to its final outcome.
func (m *Market) Resolve(o Outcome) {
	m.Resolved = true
	m.Outcome = o
}

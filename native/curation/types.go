package curation

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// IDSeparator joins the components of every composite record id. Components
// must not contain it; downstream tooling parses ids on this separator.
const IDSeparator = "-"

// Curator tracks an account that has opened at least one name signal.
type Curator struct {
	ID                string
	Account           string
	UniqueSignalCount int
}

// Publisher tracks a subgraph owner that has attracted signal.
type Publisher struct {
	ID      string
	Account string
}

// Subgraph is the anchor record signal events reference. It must be
// registered before the first mint or burn against it arrives.
type Subgraph struct {
	ID             string
	Owner          string
	Number         string
	BlockPublished *big.Int
}

// SubgraphID derives the composite subgraph id from its owner and number.
func SubgraphID(owner, number string) string {
	return owner + IDSeparator + number
}

// SignalID derives the composite name-signal id for a curator on a subgraph.
func SignalID(curatorID, subgraphID string) string {
	return curatorID + IDSeparator + subgraphID
}

// NameSignal is the per-(curator, subgraph) position record. NameSignal is
// the principal share count, Signal the derived value balance, and the two
// average-cost-basis pairs track each balance independently.
type NameSignal struct {
	ID       string
	Curator  string
	Subgraph string

	NameSignal        *big.Int
	Signal            decimal.Decimal
	SignalledTokens   *big.Int
	UnsignalledTokens *big.Int

	NameSignalAverageCostBasis          decimal.Decimal
	NameSignalAverageCostBasisPerSignal decimal.Decimal
	SignalAverageCostBasis              decimal.Decimal
	SignalAverageCostBasisPerSignal     decimal.Decimal
}

// NewNameSignal returns a zero-initialised record for the pair.
func NewNameSignal(curatorID, subgraphID string) *NameSignal {
	return &NameSignal{
		ID:                curatorID + IDSeparator + subgraphID,
		Curator:           curatorID,
		Subgraph:          subgraphID,
		NameSignal:        big.NewInt(0),
		SignalledTokens:   big.NewInt(0),
		UnsignalledTokens: big.NewInt(0),
	}
}

// ApplyMint applies a deposit to the position. The returned flag reports a
// zero-to-nonzero transition of the name signal balance, which callers use to
// treat the position as newly activated; the ledger itself attaches no
// meaning to it.
//
// Both cost-basis tracks accumulate the full deposited amount. Each per-unit
// value is re-derived from its running total divided by the corresponding
// balance, truncated to CostBasisDigits, and is left untouched while that
// balance is zero.
func (s *NameSignal) ApplyMint(nSignal *big.Int, vSignal decimal.Decimal, tokensDeposited *big.Int) bool {
	activated := s.NameSignal.Sign() == 0 && nSignal.Sign() != 0

	s.NameSignal = new(big.Int).Add(s.NameSignal, nSignal)
	s.Signal = s.Signal.Add(vSignal)
	s.SignalledTokens = new(big.Int).Add(s.SignalledTokens, tokensDeposited)

	deposited := decimal.NewFromBigInt(tokensDeposited, 0)

	s.NameSignalAverageCostBasis = s.NameSignalAverageCostBasis.Add(deposited)
	if s.NameSignal.Sign() != 0 {
		s.NameSignalAverageCostBasisPerSignal = DivTruncate(
			s.NameSignalAverageCostBasis, decimal.NewFromBigInt(s.NameSignal, 0))
	}

	s.SignalAverageCostBasis = s.SignalAverageCostBasis.Add(deposited)
	if !s.Signal.IsZero() {
		s.SignalAverageCostBasisPerSignal = DivTruncate(
			s.SignalAverageCostBasis, s.Signal)
	}
	return activated
}

// ApplyBurn applies a withdrawal. The surviving name-signal cost basis is
// re-derived from the remaining balance at the recorded per-signal rate
// (average cost basis, not FIFO/LIFO); a full exit resets the per-signal
// value to zero. Driving the balance negative is an upstream data-integrity
// violation and returns ErrNegativeSignal.
func (s *NameSignal) ApplyBurn(nSignal *big.Int, vSignal decimal.Decimal, tokensReceived *big.Int) error {
	remaining := new(big.Int).Sub(s.NameSignal, nSignal)
	if remaining.Sign() < 0 {
		return fmt.Errorf("%w: %s burns %s of %s", ErrNegativeSignal, s.ID, nSignal, s.NameSignal)
	}

	s.NameSignal = remaining
	s.Signal = s.Signal.Sub(vSignal)
	s.UnsignalledTokens = new(big.Int).Add(s.UnsignalledTokens, tokensReceived)

	s.NameSignalAverageCostBasis = decimal.NewFromBigInt(s.NameSignal, 0).
		Mul(s.NameSignalAverageCostBasisPerSignal).
		Truncate(CostBasisDigits)
	if s.NameSignalAverageCostBasis.IsZero() {
		s.NameSignalAverageCostBasisPerSignal = decimal.Decimal{}
	}
	return nil
}

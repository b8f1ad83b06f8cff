package progress

import (
	"math/big"
)

// Metric names tracked for badge thresholds. They become id components, so
// they must not contain the composite-id separator.
const (
	MetricCuratorSubgraphsSignalled = "curatorSubgraphsSignalled"
	MetricCuratorApe                = "curatorApe"
	MetricCuratorHouseOdds          = "curatorHouseOdds"
	MetricPublisherSignalAttracted  = "publisherSignalAttracted"
)

// ID derives the composite progress-counter id for an account and metric.
func ID(account, metric string) string {
	return account + "-" + metric
}

// State is the persistence surface the accumulator needs. Missing counters
// read as zero and are materialised on first write.
type State interface {
	MetricProgress(account, metric string) (*big.Int, error)
	SetMetricProgress(account, metric string, value *big.Int) error
}

// Change reports a single counter mutation. Callers compare Before and After
// against configured thresholds to decide badge issuance; the accumulator
// itself holds no policy.
type Change struct {
	Account string
	Metric  string
	Before  *big.Int
	After   *big.Int
}

// Crossed reports whether the change moved the counter from below the
// threshold to at or above it.
func (c Change) Crossed(threshold *big.Int) bool {
	if threshold == nil || c.Before == nil || c.After == nil {
		return false
	}
	return c.Before.Cmp(threshold) < 0 && c.After.Cmp(threshold) >= 0
}

// Accumulator applies counter deltas against the backing state. It does not
// deduplicate replays; upstream delivery must invoke each mutator at most
// once per qualifying domain event.
type Accumulator struct {
	state State
}

func NewAccumulator(state State) *Accumulator {
	return &Accumulator{state: state}
}

// Increment bumps the counter by one.
func (a *Accumulator) Increment(account, metric string) (Change, error) {
	return a.Add(account, metric, big.NewInt(1))
}

// Decrement lowers the counter by one.
func (a *Accumulator) Decrement(account, metric string) (Change, error) {
	return a.Subtract(account, metric, big.NewInt(1))
}

// Add applies a positive delta of the given amount.
func (a *Accumulator) Add(account, metric string, amount *big.Int) (Change, error) {
	return a.apply(account, metric, amount, false)
}

// Subtract applies a negative delta of the given amount.
func (a *Accumulator) Subtract(account, metric string, amount *big.Int) (Change, error) {
	return a.apply(account, metric, amount, true)
}

func (a *Accumulator) apply(account, metric string, amount *big.Int, negate bool) (Change, error) {
	before, err := a.state.MetricProgress(account, metric)
	if err != nil {
		return Change{}, err
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	after := new(big.Int)
	if negate {
		after.Sub(before, amount)
	} else {
		after.Add(before, amount)
	}
	if err := a.state.SetMetricProgress(account, metric, after); err != nil {
		return Change{}, err
	}
	return Change{Account: account, Metric: metric, Before: before, After: after}, nil
}

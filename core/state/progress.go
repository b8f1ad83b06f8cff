package state

import (
	"fmt"
	"math/big"

	"emblem/native/progress"
)

// Progress counters may dip below zero transiently under subtract-heavy
// replays, so the value is stored as a decimal string rather than an RLP
// big.Int, which rejects negative values.
type storedMetricProgress struct {
	ID    string
	Value string
}

// MetricProgress returns the counter for the (account, metric) pair. Missing
// counters read as zero.
func (m *Manager) MetricProgress(account, metric string) (*big.Int, error) {
	id := progress.ID(account, metric)
	stored := new(storedMetricProgress)
	found, err := m.get(recordKey(progressPrefix, id), stored)
	if err != nil {
		return nil, err
	}
	if !found {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(stored.Value, 10)
	if !ok {
		return nil, fmt.Errorf("state: metric progress %s: bad value %q", id, stored.Value)
	}
	return value, nil
}

// SetMetricProgress persists the counter, materialising it when absent.
func (m *Manager) SetMetricProgress(account, metric string, value *big.Int) error {
	if value == nil {
		value = big.NewInt(0)
	}
	id := progress.ID(account, metric)
	return m.put(recordKey(progressPrefix, id), &storedMetricProgress{
		ID:    id,
		Value: value.String(),
	})
}

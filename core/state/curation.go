package state

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"emblem/native/curation"
)

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, nil
	}
	return decimal.NewFromString(s)
}

// --- Curator ---

type storedCurator struct {
	ID                string
	Account           string
	UniqueSignalCount uint64
}

// Curator loads the curator record for the id.
func (m *Manager) Curator(id string) (*curation.Curator, bool, error) {
	stored := new(storedCurator)
	found, err := m.get(recordKey(curatorPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &curation.Curator{
		ID:                stored.ID,
		Account:           stored.Account,
		UniqueSignalCount: int(stored.UniqueSignalCount),
	}, true, nil
}

// PutCurator persists the curator record.
func (m *Manager) PutCurator(c *curation.Curator) error {
	return m.put(recordKey(curatorPrefix, c.ID), &storedCurator{
		ID:                c.ID,
		Account:           c.Account,
		UniqueSignalCount: uint64(c.UniqueSignalCount),
	})
}

// LoadOrCreateCurator materialises the curator, bumping the global curator
// count exactly once on first creation.
func (m *Manager) LoadOrCreateCurator(id string) (*curation.Curator, bool, error) {
	curator, found, err := m.Curator(id)
	if err != nil {
		return nil, false, err
	}
	if found {
		return curator, false, nil
	}
	curator = &curation.Curator{ID: id, Account: id}
	if err := m.PutCurator(curator); err != nil {
		return nil, false, err
	}
	if err := m.BumpCuratorCount(); err != nil {
		return nil, false, err
	}
	return curator, true, nil
}

// --- Publisher ---

type storedPublisher struct {
	ID      string
	Account string
}

// Publisher loads the publisher record for the id.
func (m *Manager) Publisher(id string) (*curation.Publisher, bool, error) {
	stored := new(storedPublisher)
	found, err := m.get(recordKey(publisherPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &curation.Publisher{ID: stored.ID, Account: stored.Account}, true, nil
}

// LoadOrCreatePublisher materialises the publisher, bumping the global
// publisher count exactly once on first creation.
func (m *Manager) LoadOrCreatePublisher(id string) (*curation.Publisher, bool, error) {
	publisher, found, err := m.Publisher(id)
	if err != nil {
		return nil, false, err
	}
	if found {
		return publisher, false, nil
	}
	publisher = &curation.Publisher{ID: id, Account: id}
	if err := m.put(recordKey(publisherPrefix, id), &storedPublisher{ID: id, Account: id}); err != nil {
		return nil, false, err
	}
	if err := m.BumpPublisherCount(); err != nil {
		return nil, false, err
	}
	return publisher, true, nil
}

// --- Subgraph ---

type storedSubgraph struct {
	ID             string
	Owner          string
	Number         string
	BlockPublished *big.Int
}

// Subgraph loads the anchor record signal events reference.
func (m *Manager) Subgraph(id string) (*curation.Subgraph, bool, error) {
	stored := new(storedSubgraph)
	found, err := m.get(recordKey(subgraphPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &curation.Subgraph{
		ID:             stored.ID,
		Owner:          stored.Owner,
		Number:         stored.Number,
		BlockPublished: stored.BlockPublished,
	}, true, nil
}

// RegisterSubgraph materialises the subgraph anchor record. Re-registration
// of an existing id is a no-op returning the stored record, keeping replays
// harmless.
func (m *Manager) RegisterSubgraph(owner, number string, blockPublished *big.Int) (*curation.Subgraph, error) {
	id := curation.SubgraphID(owner, number)
	existing, found, err := m.Subgraph(id)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}
	if blockPublished == nil {
		blockPublished = big.NewInt(0)
	}
	subgraph := &curation.Subgraph{
		ID:             id,
		Owner:          owner,
		Number:         number,
		BlockPublished: blockPublished,
	}
	if err := m.put(recordKey(subgraphPrefix, id), &storedSubgraph{
		ID:             id,
		Owner:          owner,
		Number:         number,
		BlockPublished: blockPublished,
	}); err != nil {
		return nil, err
	}
	return subgraph, nil
}

// --- NameSignal ---

type storedNameSignal struct {
	ID       string
	Curator  string
	Subgraph string

	NameSignal        *big.Int
	Signal            string
	SignalledTokens   *big.Int
	UnsignalledTokens *big.Int

	NameSignalAverageCostBasis          string
	NameSignalAverageCostBasisPerSignal string
	SignalAverageCostBasis              string
	SignalAverageCostBasisPerSignal     string
}

// NameSignal loads the position record for the composite id.
func (m *Manager) NameSignal(id string) (*curation.NameSignal, bool, error) {
	stored := new(storedNameSignal)
	found, err := m.get(recordKey(nameSignalPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	signal, err := stored.toSignal()
	if err != nil {
		return nil, false, fmt.Errorf("state: name signal %s: %w", id, err)
	}
	return signal, true, nil
}

func (s *storedNameSignal) toSignal() (*curation.NameSignal, error) {
	signal := &curation.NameSignal{
		ID:                s.ID,
		Curator:           s.Curator,
		Subgraph:          s.Subgraph,
		NameSignal:        s.NameSignal,
		SignalledTokens:   s.SignalledTokens,
		UnsignalledTokens: s.UnsignalledTokens,
	}
	var err error
	if signal.Signal, err = parseDecimal(s.Signal); err != nil {
		return nil, err
	}
	if signal.NameSignalAverageCostBasis, err = parseDecimal(s.NameSignalAverageCostBasis); err != nil {
		return nil, err
	}
	if signal.NameSignalAverageCostBasisPerSignal, err = parseDecimal(s.NameSignalAverageCostBasisPerSignal); err != nil {
		return nil, err
	}
	if signal.SignalAverageCostBasis, err = parseDecimal(s.SignalAverageCostBasis); err != nil {
		return nil, err
	}
	if signal.SignalAverageCostBasisPerSignal, err = parseDecimal(s.SignalAverageCostBasisPerSignal); err != nil {
		return nil, err
	}
	return signal, nil
}

// PutNameSignal persists the position record.
func (m *Manager) PutNameSignal(signal *curation.NameSignal) error {
	if signal == nil {
		return curation.ErrNilSignal
	}
	return m.put(recordKey(nameSignalPrefix, signal.ID), &storedNameSignal{
		ID:                signal.ID,
		Curator:           signal.Curator,
		Subgraph:          signal.Subgraph,
		NameSignal:        signal.NameSignal,
		Signal:            signal.Signal.String(),
		SignalledTokens:   signal.SignalledTokens,
		UnsignalledTokens: signal.UnsignalledTokens,

		NameSignalAverageCostBasis:          signal.NameSignalAverageCostBasis.String(),
		NameSignalAverageCostBasisPerSignal: signal.NameSignalAverageCostBasisPerSignal.String(),
		SignalAverageCostBasis:              signal.SignalAverageCostBasis.String(),
		SignalAverageCostBasisPerSignal:     signal.SignalAverageCostBasisPerSignal.String(),
	})
}

// LoadOrCreateNameSignal materialises the position for the pair. On first
// creation the owning curator is created as a side effect and its unique
// signal count incremented.
func (m *Manager) LoadOrCreateNameSignal(curatorID, subgraphID string) (*curation.NameSignal, bool, error) {
	id := curation.SignalID(curatorID, subgraphID)
	signal, found, err := m.NameSignal(id)
	if err != nil {
		return nil, false, err
	}
	if found {
		return signal, false, nil
	}

	curator, _, err := m.LoadOrCreateCurator(curatorID)
	if err != nil {
		return nil, false, err
	}
	signal = curation.NewNameSignal(curatorID, subgraphID)
	if err := m.PutNameSignal(signal); err != nil {
		return nil, false, err
	}
	curator.UniqueSignalCount++
	if err := m.PutCurator(curator); err != nil {
		return nil, false, err
	}
	return signal, true, nil
}

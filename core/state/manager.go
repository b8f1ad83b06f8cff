package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"emblem/storage"
)

// Manager provides typed access to the flat keyed records the indexer derives
// from the event stream. Every record is RLP encoded under a kind prefix; the
// id components inside a composite key are joined with the literal "-"
// separator other tooling relies on for parsing.
//
// The surrounding runtime processes one event to completion before the next,
// so the manager performs no locking; correctness rests on each mutation
// being idempotent under at-least-once redelivery.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func recordKey(prefix []byte, id string) []byte {
	key := make([]byte, len(prefix)+len(id))
	copy(key, prefix)
	copy(key[len(prefix):], id)
	return key
}

// get decodes the record stored under key into out. The boolean reports
// whether the record existed.
func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Manager) put(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, encoded)
}

func (m *Manager) has(key []byte) (bool, error) {
	return m.db.Has(key)
}

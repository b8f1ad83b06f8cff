package state

// EntityStats is the process-wide singleton of population counters. Every
// first-creation path of the corresponding entity kind routes through one of
// the bump methods below so the counters cannot be double-applied from ad hoc
// call sites. IndexerCount and DelegatorCount are part of the stored record
// shape but have no feeding operation here; they read zero until staking
// events are ingested.
type EntityStats struct {
	VoterCount     int
	IndexerCount   int
	DelegatorCount int
	CuratorCount   int
	PublisherCount int
	AwardCount     int
}

type storedEntityStats struct {
	VoterCount     uint64
	IndexerCount   uint64
	DelegatorCount uint64
	CuratorCount   uint64
	PublisherCount uint64
	AwardCount     uint64
}

// EntityStats returns the singleton, creating it with all counters at zero
// when absent.
func (m *Manager) EntityStats() (*EntityStats, error) {
	stored := new(storedEntityStats)
	found, err := m.get(statsKey, stored)
	if err != nil {
		return nil, err
	}
	stats := &EntityStats{
		VoterCount:     int(stored.VoterCount),
		IndexerCount:   int(stored.IndexerCount),
		DelegatorCount: int(stored.DelegatorCount),
		CuratorCount:   int(stored.CuratorCount),
		PublisherCount: int(stored.PublisherCount),
		AwardCount:     int(stored.AwardCount),
	}
	if !found {
		if err := m.PutEntityStats(stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// PutEntityStats persists the singleton.
func (m *Manager) PutEntityStats(stats *EntityStats) error {
	return m.put(statsKey, &storedEntityStats{
		VoterCount:     uint64(stats.VoterCount),
		IndexerCount:   uint64(stats.IndexerCount),
		DelegatorCount: uint64(stats.DelegatorCount),
		CuratorCount:   uint64(stats.CuratorCount),
		PublisherCount: uint64(stats.PublisherCount),
		AwardCount:     uint64(stats.AwardCount),
	})
}

func (m *Manager) bumpStats(apply func(*EntityStats)) (*EntityStats, error) {
	stats, err := m.EntityStats()
	if err != nil {
		return nil, err
	}
	apply(stats)
	if err := m.PutEntityStats(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// BumpCuratorCount records a newly created curator.
func (m *Manager) BumpCuratorCount() error {
	_, err := m.bumpStats(func(s *EntityStats) { s.CuratorCount++ })
	return err
}

// BumpPublisherCount records a newly created publisher.
func (m *Manager) BumpPublisherCount() error {
	_, err := m.bumpStats(func(s *EntityStats) { s.PublisherCount++ })
	return err
}

// BumpVoterCount records an account earning its first voting power.
func (m *Manager) BumpVoterCount() error {
	_, err := m.bumpStats(func(s *EntityStats) { s.VoterCount++ })
	return err
}

// BumpAwardCount increments the global award counter and returns the new
// value, which becomes the award's global sequence number.
func (m *Manager) BumpAwardCount() (int, error) {
	stats, err := m.bumpStats(func(s *EntityStats) { s.AwardCount++ })
	if err != nil {
		return 0, err
	}
	return stats.AwardCount, nil
}

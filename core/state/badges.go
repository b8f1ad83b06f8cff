package state

import (
	"math/big"

	"emblem/native/badges"
)

// --- Protocol / BadgeTrack ---

type storedProtocol struct {
	ID string
}

// CreateOrLoadProtocol materialises the protocol root record.
func (m *Manager) CreateOrLoadProtocol(name string) (*badges.Protocol, error) {
	key := recordKey(protocolPrefix, name)
	stored := new(storedProtocol)
	found, err := m.get(key, stored)
	if err != nil {
		return nil, err
	}
	if found {
		return &badges.Protocol{ID: stored.ID}, nil
	}
	protocol := &badges.Protocol{ID: name}
	if err := m.put(key, &storedProtocol{ID: name}); err != nil {
		return nil, err
	}
	return protocol, nil
}

type storedBadgeTrack struct {
	ID           string
	ProtocolRole string
	Protocol     string
}

// CreateOrLoadBadgeTrack materialises a badge track, ensuring its protocol
// record exists.
func (m *Manager) CreateOrLoadBadgeTrack(name, protocolRole, protocol string) (*badges.BadgeTrack, error) {
	key := recordKey(trackPrefix, name)
	stored := new(storedBadgeTrack)
	found, err := m.get(key, stored)
	if err != nil {
		return nil, err
	}
	if found {
		return &badges.BadgeTrack{ID: stored.ID, ProtocolRole: stored.ProtocolRole, Protocol: stored.Protocol}, nil
	}
	if _, err := m.CreateOrLoadProtocol(protocol); err != nil {
		return nil, err
	}
	track := &badges.BadgeTrack{ID: name, ProtocolRole: protocolRole, Protocol: protocol}
	if err := m.put(key, &storedBadgeTrack{ID: name, ProtocolRole: protocolRole, Protocol: protocol}); err != nil {
		return nil, err
	}
	return track, nil
}

// --- BadgeDefinition ---

type storedBadgeDefinition struct {
	ID          string
	Description string
	Track       string
	VotingPower *big.Int
	Image       string
	AwardCount  uint64
}

// BadgeDefinition loads the definition by name.
func (m *Manager) BadgeDefinition(name string) (*badges.BadgeDefinition, bool, error) {
	stored := new(storedBadgeDefinition)
	found, err := m.get(recordKey(definitionPrefix, name), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &badges.BadgeDefinition{
		ID:          stored.ID,
		Description: stored.Description,
		Track:       stored.Track,
		VotingPower: stored.VotingPower,
		Image:       stored.Image,
		AwardCount:  int(stored.AwardCount),
	}, true, nil
}

// PutBadgeDefinition persists the definition.
func (m *Manager) PutBadgeDefinition(def *badges.BadgeDefinition) error {
	if def == nil {
		return badges.ErrNilDefinition
	}
	votingPower := def.VotingPower
	if votingPower == nil {
		votingPower = big.NewInt(0)
	}
	return m.put(recordKey(definitionPrefix, def.ID), &storedBadgeDefinition{
		ID:          def.ID,
		Description: def.Description,
		Track:       def.Track,
		VotingPower: votingPower,
		Image:       def.Image,
		AwardCount:  uint64(def.AwardCount),
	})
}

// CreateOrLoadBadgeDefinition returns the stored definition when present and
// otherwise persists the provided one with its award count at zero.
func (m *Manager) CreateOrLoadBadgeDefinition(def *badges.BadgeDefinition) (*badges.BadgeDefinition, error) {
	if def == nil {
		return nil, badges.ErrNilDefinition
	}
	existing, found, err := m.BadgeDefinition(def.ID)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}
	def.AwardCount = 0
	if err := m.PutBadgeDefinition(def); err != nil {
		return nil, err
	}
	return def, nil
}

// --- BadgeAward ---

type storedBadgeAward struct {
	ID                string
	Winner            string
	Definition        string
	BlockAwarded      *big.Int
	TransactionHash   string
	TimestampAwarded  *big.Int
	GlobalAwardNumber uint64
	AwardNumber       uint64
}

// BadgeAward loads the award for the composite id.
func (m *Manager) BadgeAward(id string) (*badges.BadgeAward, bool, error) {
	stored := new(storedBadgeAward)
	found, err := m.get(recordKey(awardPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &badges.BadgeAward{
		ID:                stored.ID,
		Winner:            stored.Winner,
		Definition:        stored.Definition,
		BlockAwarded:      stored.BlockAwarded,
		TransactionHash:   stored.TransactionHash,
		TimestampAwarded:  stored.TimestampAwarded,
		GlobalAwardNumber: int(stored.GlobalAwardNumber),
		AwardNumber:       int(stored.AwardNumber),
	}, true, nil
}

// PutBadgeAward persists the award record.
func (m *Manager) PutBadgeAward(award *badges.BadgeAward) error {
	blockAwarded := award.BlockAwarded
	if blockAwarded == nil {
		blockAwarded = big.NewInt(0)
	}
	timestampAwarded := award.TimestampAwarded
	if timestampAwarded == nil {
		timestampAwarded = big.NewInt(0)
	}
	return m.put(recordKey(awardPrefix, award.ID), &storedBadgeAward{
		ID:                award.ID,
		Winner:            award.Winner,
		Definition:        award.Definition,
		BlockAwarded:      blockAwarded,
		TransactionHash:   award.TransactionHash,
		TimestampAwarded:  timestampAwarded,
		GlobalAwardNumber: uint64(award.GlobalAwardNumber),
		AwardNumber:       uint64(award.AwardNumber),
	})
}

// --- BadgeAwardMetadata ---

type storedAwardMetadata struct {
	ID         string
	BadgeAward string
	Name       string
	Value      string
}

// HasBadgeAwardMetadata reports whether the metadata record exists.
func (m *Manager) HasBadgeAwardMetadata(id string) (bool, error) {
	return m.has(recordKey(metadataPrefix, id))
}

// BadgeAwardMetadata loads a metadata record.
func (m *Manager) BadgeAwardMetadata(id string) (*badges.BadgeAwardMetadata, bool, error) {
	stored := new(storedAwardMetadata)
	found, err := m.get(recordKey(metadataPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &badges.BadgeAwardMetadata{
		ID:         stored.ID,
		BadgeAward: stored.BadgeAward,
		Name:       stored.Name,
		Value:      stored.Value,
	}, true, nil
}

// PutBadgeAwardMetadata persists a metadata record.
func (m *Manager) PutBadgeAwardMetadata(md *badges.BadgeAwardMetadata) error {
	return m.put(recordKey(metadataPrefix, md.ID), &storedAwardMetadata{
		ID:         md.ID,
		BadgeAward: md.BadgeAward,
		Name:       md.Name,
		Value:      md.Value,
	})
}

// --- Account ---

type storedAccount struct {
	ID                     string
	WinnerAwardCount       uint64
	WinnerMintedAwardCount uint64
	WinnerVotingPower      *big.Int
	GraphAwardCount        uint64
	GraphVotingPower       *big.Int
}

// Account loads the aggregate of both account projections.
func (m *Manager) Account(id string) (*badges.Account, bool, error) {
	stored := new(storedAccount)
	found, err := m.get(recordKey(accountPrefix, id), stored)
	if err != nil || !found {
		return nil, false, err
	}
	return &badges.Account{
		ID: stored.ID,
		Winner: badges.WinnerView{
			AwardCount:       int(stored.WinnerAwardCount),
			MintedAwardCount: int(stored.WinnerMintedAwardCount),
			VotingPower:      stored.WinnerVotingPower,
		},
		Graph: badges.GraphAccountView{
			AwardCount:  int(stored.GraphAwardCount),
			VotingPower: stored.GraphVotingPower,
		},
	}, true, nil
}

// LoadOrCreateAccount materialises the account aggregate at zero.
func (m *Manager) LoadOrCreateAccount(id string) (*badges.Account, error) {
	acct, found, err := m.Account(id)
	if err != nil {
		return nil, err
	}
	if found {
		return acct, nil
	}
	acct = badges.NewAccount(id)
	if err := m.PutAccount(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// PutAccount persists both projections together.
func (m *Manager) PutAccount(acct *badges.Account) error {
	return m.put(recordKey(accountPrefix, acct.ID), &storedAccount{
		ID:                     acct.ID,
		WinnerAwardCount:       uint64(acct.Winner.AwardCount),
		WinnerMintedAwardCount: uint64(acct.Winner.MintedAwardCount),
		WinnerVotingPower:      acct.Winner.VotingPower,
		GraphAwardCount:        uint64(acct.Graph.AwardCount),
		GraphVotingPower:       acct.Graph.VotingPower,
	})
}

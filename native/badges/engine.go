package badges

// State describes the persistence surface the award engine needs from the
// surrounding state implementation.
type State interface {
	BadgeAward(id string) (*BadgeAward, bool, error)
	PutBadgeAward(award *BadgeAward) error
	PutBadgeDefinition(def *BadgeDefinition) error
	HasBadgeAwardMetadata(id string) (bool, error)
	PutBadgeAwardMetadata(md *BadgeAwardMetadata) error
	LoadOrCreateAccount(id string) (*Account, error)
	PutAccount(acct *Account) error
	BumpAwardCount() (int, error)
	BumpVoterCount() error
}

// Engine issues deduplicated badge awards and keeps the award counters and
// voting power aggregates in sync.
type Engine struct {
	state State
}

// NewEngine constructs an engine bound to the provided state.
func NewEngine(state State) *Engine {
	return &Engine{state: state}
}

// Issue awards the definition to the winner. Award and metadata creation is
// strictly once-only per (definition, winner) pair; the account aggregation
// side effect runs on every invocation so replays remain safe to call
// unconditionally. Store failures abort the event and propagate.
func (e *Engine) Issue(def *BadgeDefinition, winnerID string, event EventData) error {
	if def == nil {
		return ErrNilDefinition
	}
	if winnerID == "" {
		return ErrEmptyWinner
	}

	awardID := AwardID(def.ID, winnerID)
	award, found, err := e.state.BadgeAward(awardID)
	if err != nil {
		return err
	}
	if !found {
		globalNumber, err := e.state.BumpAwardCount()
		if err != nil {
			return err
		}
		def.AwardCount++
		if err := e.state.PutBadgeDefinition(def); err != nil {
			return err
		}

		award = &BadgeAward{
			ID:                awardID,
			Winner:            winnerID,
			Definition:        def.ID,
			BlockAwarded:      event.BlockNumber,
			TransactionHash:   event.TransactionHash,
			TimestampAwarded:  event.Timestamp,
			GlobalAwardNumber: globalNumber,
			AwardNumber:       def.AwardCount,
		}
		if err := e.state.PutBadgeAward(award); err != nil {
			return err
		}
		for _, md := range event.Metadata {
			if err := e.attachMetadata(awardID, md); err != nil {
				return err
			}
		}
	}

	return e.updateAccount(def, winnerID)
}

func (e *Engine) attachMetadata(awardID string, md EventMetadata) error {
	id := MetadataID(awardID, md.Name)
	exists, err := e.state.HasBadgeAwardMetadata(id)
	if err != nil || exists {
		return err
	}
	return e.state.PutBadgeAwardMetadata(&BadgeAwardMetadata{
		ID:         id,
		BadgeAward: awardID,
		Name:       md.Name,
		Value:      md.Value,
	})
}

func (e *Engine) updateAccount(def *BadgeDefinition, winnerID string) error {
	acct, err := e.state.LoadOrCreateAccount(winnerID)
	if err != nil {
		return err
	}
	acct.Winner.AwardCount++
	acct.Graph.AwardCount++

	if def.VotingPower != nil && def.VotingPower.Sign() > 0 {
		// first voting power this account has ever earned
		if acct.Winner.VotingPower.Sign() == 0 {
			if err := e.state.BumpVoterCount(); err != nil {
				return err
			}
		}
		acct.Winner.VotingPower.Add(acct.Winner.VotingPower, def.VotingPower)
		acct.Graph.VotingPower.Add(acct.Graph.VotingPower, def.VotingPower)
	}
	return e.state.PutAccount(acct)
}

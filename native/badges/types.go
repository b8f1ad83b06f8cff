package badges

import "math/big"

// IDSeparator joins composite record id components.
const IDSeparator = "-"

// Protocol is the root record a badge track belongs to.
type Protocol struct {
	ID string
}

// BadgeTrack groups definitions by the protocol role they reward.
type BadgeTrack struct {
	ID           string
	ProtocolRole string
	Protocol     string
}

// BadgeDefinition is the static description of an awardable badge. All
// fields except AwardCount are read-only after creation.
type BadgeDefinition struct {
	ID          string
	Description string
	Track       string
	VotingPower *big.Int
	Image       string
	AwardCount  int
}

// BadgeAward records that a winner earned a definition. Awards are immutable
// once written; a repeated issuance for the same (definition, winner) pair
// never creates a second record.
type BadgeAward struct {
	ID                string
	Winner            string
	Definition        string
	BlockAwarded      *big.Int
	TransactionHash   string
	TimestampAwarded  *big.Int
	GlobalAwardNumber int
	AwardNumber       int
}

// AwardID derives the composite award id.
func AwardID(definitionID, winnerID string) string {
	return definitionID + IDSeparator + winnerID
}

// BadgeAwardMetadata is an append-only key/value attached to an award.
type BadgeAwardMetadata struct {
	ID         string
	BadgeAward string
	Name       string
	Value      string
}

// MetadataID derives the composite metadata id.
func MetadataID(awardID, name string) string {
	return awardID + IDSeparator + name
}

// WinnerView and GraphAccountView are the two projections of one account.
// They are stored inside a single Account aggregate and always written
// together so they cannot drift.
type WinnerView struct {
	AwardCount int
	// MintedAwardCount counts awards redeemed as on-chain NFTs. Mint
	// events are not ingested here, so the counter stays zero until a
	// feed supplies them.
	MintedAwardCount int
	VotingPower      *big.Int
}

type GraphAccountView struct {
	AwardCount  int
	VotingPower *big.Int
}

// Account aggregates both projections of a badge-earning account.
type Account struct {
	ID     string
	Winner WinnerView
	Graph  GraphAccountView
}

// NewAccount returns a zero-initialised aggregate for the id.
func NewAccount(id string) *Account {
	return &Account{
		ID:     id,
		Winner: WinnerView{VotingPower: big.NewInt(0)},
		Graph:  GraphAccountView{VotingPower: big.NewInt(0)},
	}
}

// EventMetadata is a single key/value captured from the triggering event.
type EventMetadata struct {
	Name  string
	Value string
}

// EventData carries the provenance of the domain event that triggered an
// award.
type EventData struct {
	BlockNumber     *big.Int
	TransactionHash string
	Timestamp       *big.Int
	Metadata        []EventMetadata
}

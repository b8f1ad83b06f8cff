package badges_test

import (
	"math/big"
	"testing"

	"emblem/core/state"
	"emblem/native/badges"
	"emblem/storage"
)

func newTestState(t *testing.T) *state.Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	return state.NewManager(db)
}

func testDefinition(t *testing.T, mgr *state.Manager, name string, votingPower int64) *badges.BadgeDefinition {
	t.Helper()
	def, err := mgr.CreateOrLoadBadgeDefinition(&badges.BadgeDefinition{
		ID:          name,
		Description: "test badge",
		Track:       "curation",
		VotingPower: big.NewInt(votingPower),
	})
	if err != nil {
		t.Fatalf("create definition: %v", err)
	}
	return def
}

func eventData() badges.EventData {
	return badges.EventData{
		BlockNumber:     big.NewInt(1200),
		TransactionHash: "0xabc",
		Timestamp:       big.NewInt(1700000000),
		Metadata: []badges.EventMetadata{
			{Name: "tokens", Value: "100"},
		},
	}
}

func TestIssueCreatesAwardWithProvenance(t *testing.T) {
	mgr := newTestState(t)
	engine := badges.NewEngine(mgr)
	def := testDefinition(t, mgr, "Baby Curator", 0)

	if err := engine.Issue(def, "winner1", eventData()); err != nil {
		t.Fatalf("issue: %v", err)
	}

	award, found, err := mgr.BadgeAward(badges.AwardID("Baby Curator", "winner1"))
	if err != nil || !found {
		t.Fatalf("award not stored: found=%v err=%v", found, err)
	}
	if award.GlobalAwardNumber != 1 || award.AwardNumber != 1 {
		t.Fatalf("unexpected sequence numbers: global=%d definition=%d",
			award.GlobalAwardNumber, award.AwardNumber)
	}
	if award.BlockAwarded.Cmp(big.NewInt(1200)) != 0 || award.TransactionHash != "0xabc" {
		t.Fatalf("provenance not recorded: %+v", award)
	}

	md, found, err := mgr.BadgeAwardMetadata(badges.MetadataID(award.ID, "tokens"))
	if err != nil || !found {
		t.Fatalf("metadata not stored: found=%v err=%v", found, err)
	}
	if md.Value != "100" {
		t.Fatalf("unexpected metadata value: %s", md.Value)
	}
}

// A second issuance for the same pair must not create a second award, but the
// account aggregation side effect runs once per invocation.
func TestIssueDeduplicatesAwardNotAccountUpdate(t *testing.T) {
	mgr := newTestState(t)
	engine := badges.NewEngine(mgr)
	def := testDefinition(t, mgr, "Baby Curator", 5)

	if err := engine.Issue(def, "winner1", eventData()); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	replayed := eventData()
	replayed.Metadata = []badges.EventMetadata{{Name: "tokens", Value: "999"}}
	if err := engine.Issue(def, "winner1", replayed); err != nil {
		t.Fatalf("second issue: %v", err)
	}

	stats, err := mgr.EntityStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AwardCount != 1 {
		t.Fatalf("global award count must stay at 1, got %d", stats.AwardCount)
	}
	if stats.VoterCount != 1 {
		t.Fatalf("voter count must stay at 1, got %d", stats.VoterCount)
	}

	md, _, err := mgr.BadgeAwardMetadata(badges.MetadataID(badges.AwardID("Baby Curator", "winner1"), "tokens"))
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if md.Value != "100" {
		t.Fatalf("metadata must be created once-only, got %s", md.Value)
	}

	acct, found, err := mgr.Account("winner1")
	if err != nil || !found {
		t.Fatalf("account missing: found=%v err=%v", found, err)
	}
	if acct.Winner.AwardCount != 2 || acct.Graph.AwardCount != 2 {
		t.Fatalf("account aggregation must run per invocation: winner=%d graph=%d",
			acct.Winner.AwardCount, acct.Graph.AwardCount)
	}
	if acct.Winner.VotingPower.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("voting power applied per invocation: %s", acct.Winner.VotingPower)
	}
	if acct.Graph.VotingPower.Cmp(acct.Winner.VotingPower) != 0 {
		t.Fatalf("projections drifted: %s vs %s", acct.Graph.VotingPower, acct.Winner.VotingPower)
	}
}

func TestIssueTwoDefinitionsOneWinner(t *testing.T) {
	mgr := newTestState(t)
	engine := badges.NewEngine(mgr)
	zeroWeight := testDefinition(t, mgr, "Spectator", 0)
	tenWeight := testDefinition(t, mgr, "Commando", 10)

	if err := engine.Issue(zeroWeight, "winner1", eventData()); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := engine.Issue(tenWeight, "winner1", eventData()); err != nil {
		t.Fatalf("issue: %v", err)
	}

	stats, err := mgr.EntityStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AwardCount != 2 {
		t.Fatalf("global award count: %d, want 2", stats.AwardCount)
	}
	// the zero-weight award grants no voting power and must not mark a voter
	if stats.VoterCount != 1 {
		t.Fatalf("voter count: %d, want 1", stats.VoterCount)
	}

	first, _, _ := mgr.BadgeAward(badges.AwardID("Spectator", "winner1"))
	second, _, _ := mgr.BadgeAward(badges.AwardID("Commando", "winner1"))
	if first.GlobalAwardNumber != 1 || second.GlobalAwardNumber != 2 {
		t.Fatalf("global sequence: %d then %d", first.GlobalAwardNumber, second.GlobalAwardNumber)
	}
	if first.AwardNumber != 1 || second.AwardNumber != 1 {
		t.Fatalf("per-definition sequence: %d and %d", first.AwardNumber, second.AwardNumber)
	}

	acct, _, err := mgr.Account("winner1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.Winner.AwardCount != 2 {
		t.Fatalf("award count: %d, want 2", acct.Winner.AwardCount)
	}
	if acct.Winner.VotingPower.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("voting power: %s, want 10", acct.Winner.VotingPower)
	}
}

func TestIssuePerDefinitionSequenceAcrossWinners(t *testing.T) {
	mgr := newTestState(t)
	engine := badges.NewEngine(mgr)
	def := testDefinition(t, mgr, "Baby Curator", 1)

	if err := engine.Issue(def, "winner1", eventData()); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := engine.Issue(def, "winner2", eventData()); err != nil {
		t.Fatalf("issue: %v", err)
	}

	first, _, _ := mgr.BadgeAward(badges.AwardID("Baby Curator", "winner1"))
	second, _, _ := mgr.BadgeAward(badges.AwardID("Baby Curator", "winner2"))
	if first.AwardNumber != 1 || second.AwardNumber != 2 {
		t.Fatalf("per-definition sequence: %d then %d", first.AwardNumber, second.AwardNumber)
	}

	stored, _, err := mgr.BadgeDefinition("Baby Curator")
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	if stored.AwardCount != 2 {
		t.Fatalf("definition award count: %d, want 2", stored.AwardCount)
	}

	stats, err := mgr.EntityStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.VoterCount != 2 {
		t.Fatalf("both winners earned first voting power: %d", stats.VoterCount)
	}
}

package core

import (
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"emblem/config"
	"emblem/core/state"
	"emblem/native/curation"
	"emblem/native/progress"
	"emblem/storage"
)

const testConfig = `
Protocol = "The Graph"

[[Tracks]]
Name = "curation"
Role = "curator"

[[Badges]]
Name = "Baby Curator"
Description = "Signalled on a subgraph"
Track = "curation"
VotingPower = 0
Metric = "curatorSubgraphsSignalled"
Threshold = "1"

[[Badges]]
Name = "Curation Commando"
Description = "Signalled on two subgraphs"
Track = "curation"
VotingPower = 10
Metric = "curatorSubgraphsSignalled"
Threshold = "2"
`

func newTestIndexer(t *testing.T) (*Indexer, *state.Manager) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	mgr := state.NewManager(db)

	cfg, err := config.Parse(testConfig)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	rules, err := ApplyBadgeConfig(mgr, cfg)
	if err != nil {
		t.Fatalf("apply badge config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIndexer(mgr, rules, logger), mgr
}

func publishSubgraph(t *testing.T, idx *Indexer, owner, number string, block int64) {
	t.Helper()
	err := idx.OnSubgraphPublished(SubgraphPublished{
		GraphAccount:   owner,
		SubgraphNumber: number,
		Block:          big.NewInt(block),
	})
	if err != nil {
		t.Fatalf("publish subgraph: %v", err)
	}
}

func mint(t *testing.T, idx *Indexer, owner, number, curator string, nSignal, tokens int64, block int64) {
	t.Helper()
	err := idx.OnSignalMinted(SignalMinted{
		GraphAccount:    owner,
		SubgraphNumber:  number,
		NameCurator:     curator,
		NSignalCreated:  big.NewInt(nSignal),
		VSignalCreated:  decimal.NewFromInt(nSignal),
		TokensDeposited: big.NewInt(tokens),
		Block:           big.NewInt(block),
		TxHash:          "0xmint",
		Timestamp:       big.NewInt(1700000000),
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
}

func TestMintAwardsThresholdBadges(t *testing.T) {
	idx, mgr := newTestIndexer(t)
	publishSubgraph(t, idx, "owner1", "0", 100)
	publishSubgraph(t, idx, "owner1", "1", 100)

	mint(t, idx, "owner1", "0", "curator1", 100, 100, 150)

	stats, err := mgr.EntityStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.CuratorCount != 1 || stats.PublisherCount != 1 {
		t.Fatalf("population counts: %+v", stats)
	}
	if stats.AwardCount != 1 {
		t.Fatalf("award count after first mint: %d", stats.AwardCount)
	}
	if stats.VoterCount != 0 {
		t.Fatalf("zero-weight badge must not mark a voter: %d", stats.VoterCount)
	}

	// early third-party signal within the publication window
	ape, err := mgr.MetricProgress("curator1", progress.MetricCuratorApe)
	if err != nil {
		t.Fatalf("ape metric: %v", err)
	}
	if ape.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("ape metric: %s", ape)
	}

	attracted, err := mgr.MetricProgress("owner1", progress.MetricPublisherSignalAttracted)
	if err != nil {
		t.Fatalf("publisher metric: %v", err)
	}
	if attracted.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("publisher metric: %s", attracted)
	}

	mint(t, idx, "owner1", "1", "curator1", 50, 50, 160)

	stats, err = mgr.EntityStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AwardCount != 2 {
		t.Fatalf("award count after second mint: %d", stats.AwardCount)
	}
	if stats.VoterCount != 1 {
		t.Fatalf("weighted badge must mark the voter once: %d", stats.VoterCount)
	}

	acct, found, err := mgr.Account("curator1")
	if err != nil || !found {
		t.Fatalf("account: found=%v err=%v", found, err)
	}
	if acct.Winner.AwardCount != 2 {
		t.Fatalf("award count: %d", acct.Winner.AwardCount)
	}
	if acct.Winner.VotingPower.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("voting power: %s", acct.Winner.VotingPower)
	}

	first, _, _ := mgr.BadgeAward("Baby Curator-curator1")
	second, _, _ := mgr.BadgeAward("Curation Commando-curator1")
	if first == nil || second == nil {
		t.Fatal("awards missing")
	}
	if first.GlobalAwardNumber != 1 || second.GlobalAwardNumber != 2 {
		t.Fatalf("issuance order: %d then %d", first.GlobalAwardNumber, second.GlobalAwardNumber)
	}
}

func TestMintAgainstUnknownSubgraphIsFatal(t *testing.T) {
	idx, _ := newTestIndexer(t)

	err := idx.OnSignalMinted(SignalMinted{
		GraphAccount:    "owner1",
		SubgraphNumber:  "0",
		NameCurator:     "curator1",
		NSignalCreated:  big.NewInt(1),
		VSignalCreated:  decimal.NewFromInt(1),
		TokensDeposited: big.NewInt(1),
		Block:           big.NewInt(10),
		Timestamp:       big.NewInt(1),
	})
	if !errors.Is(err, curation.ErrSubgraphNotFound) {
		t.Fatalf("expected ErrSubgraphNotFound, got %v", err)
	}
}

func TestHouseOddsWhenCuratorOwnsSubgraph(t *testing.T) {
	idx, mgr := newTestIndexer(t)
	publishSubgraph(t, idx, "owner1", "0", 100)

	mint(t, idx, "owner1", "0", "owner1", 10, 10, 120)

	houseOdds, err := mgr.MetricProgress("owner1", progress.MetricCuratorHouseOdds)
	if err != nil {
		t.Fatalf("house odds: %v", err)
	}
	if houseOdds.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("house odds metric: %s", houseOdds)
	}
	ape, err := mgr.MetricProgress("owner1", progress.MetricCuratorApe)
	if err != nil {
		t.Fatalf("ape: %v", err)
	}
	if ape.Sign() != 0 {
		t.Fatalf("owner signal must not count as early signal: %s", ape)
	}
}

func TestApeWindowClosesAfterHundredBlocks(t *testing.T) {
	idx, mgr := newTestIndexer(t)
	publishSubgraph(t, idx, "owner1", "0", 100)

	mint(t, idx, "owner1", "0", "curator1", 10, 10, 201)

	ape, err := mgr.MetricProgress("curator1", progress.MetricCuratorApe)
	if err != nil {
		t.Fatalf("ape: %v", err)
	}
	if ape.Sign() != 0 {
		t.Fatalf("signal outside the window must not count: %s", ape)
	}
}

func TestBurnFullExit(t *testing.T) {
	idx, mgr := newTestIndexer(t)
	publishSubgraph(t, idx, "owner1", "0", 100)
	mint(t, idx, "owner1", "0", "curator1", 100, 100, 150)

	err := idx.OnSignalBurned(SignalBurned{
		GraphAccount:   "owner1",
		SubgraphNumber: "0",
		NameCurator:    "curator1",
		NSignalBurnt:   big.NewInt(100),
		VSignalBurnt:   decimal.NewFromInt(100),
		TokensReceived: big.NewInt(90),
		Block:          big.NewInt(170),
		TxHash:         "0xburn",
		Timestamp:      big.NewInt(1700000100),
	})
	if err != nil {
		t.Fatalf("burn: %v", err)
	}

	signal, found, err := mgr.NameSignal(curation.SignalID("curator1", "owner1-0"))
	if err != nil || !found {
		t.Fatalf("signal: found=%v err=%v", found, err)
	}
	if signal.NameSignal.Sign() != 0 {
		t.Fatalf("balance after full exit: %s", signal.NameSignal)
	}
	if !signal.NameSignalAverageCostBasisPerSignal.IsZero() {
		t.Fatalf("full exit must reset per-signal cost basis: %s",
			signal.NameSignalAverageCostBasisPerSignal)
	}

	attracted, err := mgr.MetricProgress("owner1", progress.MetricPublisherSignalAttracted)
	if err != nil {
		t.Fatalf("publisher metric: %v", err)
	}
	if attracted.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("publisher metric after burn: %s", attracted)
	}
}

func TestLockWalletResolution(t *testing.T) {
	idx, mgr := newTestIndexer(t)
	publishSubgraph(t, idx, "owner1", "0", 100)

	if err := idx.OnLockWalletCreated(LockWalletCreated{Wallet: "wallet1", Beneficiary: "alice"}); err != nil {
		t.Fatalf("lock wallet: %v", err)
	}

	mint(t, idx, "owner1", "0", "wallet1", 10, 10, 150)

	if _, found, err := mgr.Curator("wallet1"); err != nil || found {
		t.Fatalf("raw wallet id must not materialise a curator: found=%v err=%v", found, err)
	}
	curator, found, err := mgr.Curator("alice")
	if err != nil || !found {
		t.Fatalf("beneficiary curator missing: found=%v err=%v", found, err)
	}
	if curator.UniqueSignalCount != 1 {
		t.Fatalf("unique signal count: %d", curator.UniqueSignalCount)
	}

	award, found, err := mgr.BadgeAward("Baby Curator-alice")
	if err != nil || !found {
		t.Fatalf("award under beneficiary missing: found=%v err=%v", found, err)
	}
	if award.Winner != "alice" {
		t.Fatalf("unexpected winner: %s", award.Winner)
	}
}

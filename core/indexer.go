package core

import (
	"fmt"
	"log/slog"
	"math/big"

	"emblem/core/state"
	"emblem/native/badges"
	"emblem/native/curation"
	"emblem/native/progress"
	"emblem/native/tokenlock"
	"emblem/observability/metrics"
)

// Badge award metadata keys attached to deposit-triggered awards.
const (
	metadataNameTokens   = "tokens"
	metadataNameCurator  = "curator"
	metadataNameSubgraph = "subgraph"
)

// apeWindowBlocks is the publication window within which a third-party
// signal counts toward the early-signal metric.
var apeWindowBlocks = big.NewInt(100)

// ThresholdRule maps a metric crossing to a badge definition. Rules come
// from configuration; the indexer only evaluates before/after values.
type ThresholdRule struct {
	Definition string
	Metric     string
	Threshold  *big.Int
}

// Indexer applies inbound domain events to derived state. Events are
// processed strictly one at a time to completion; delivery is at-least-once,
// so every mutation path is written to be safe under replay of the same
// event.
type Indexer struct {
	state   *state.Manager
	resolve *tokenlock.Resolver
	accum   *progress.Accumulator
	engine  *badges.Engine
	rules   []ThresholdRule
	logger  *slog.Logger
	metrics *metrics.IndexerMetrics
}

// NewIndexer wires an indexer over the given state manager.
func NewIndexer(mgr *state.Manager, rules []ThresholdRule, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		state:   mgr,
		resolve: tokenlock.NewResolver(mgr),
		accum:   progress.NewAccumulator(mgr),
		engine:  badges.NewEngine(mgr),
		rules:   rules,
		logger:  logger,
		metrics: metrics.Indexer(),
	}
}

// Engine exposes the award engine for external eligibility policy that goes
// beyond simple threshold rules.
func (i *Indexer) Engine() *badges.Engine {
	return i.engine
}

// OnSubgraphPublished materialises the subgraph anchor record.
func (i *Indexer) OnSubgraphPublished(ev SubgraphPublished) error {
	owner, err := i.resolve.Resolve(ev.GraphAccount)
	if err != nil {
		return i.fail("subgraph_published", err)
	}
	if _, err := i.state.RegisterSubgraph(owner, ev.SubgraphNumber, ev.Block); err != nil {
		return i.fail("subgraph_published", err)
	}
	i.metrics.ObserveEvent("subgraph_published")
	return nil
}

// OnLockWalletCreated records a wallet to beneficiary mapping for identity
// resolution.
func (i *Indexer) OnLockWalletCreated(ev LockWalletCreated) error {
	if err := i.state.RegisterLockWallet(ev.Wallet, ev.Beneficiary); err != nil {
		return i.fail("lock_wallet_created", err)
	}
	i.metrics.ObserveEvent("lock_wallet_created")
	return nil
}

// OnSignalMinted applies a deposit to the curator's position and feeds the
// progress metrics that badge thresholds are evaluated against.
func (i *Indexer) OnSignalMinted(ev SignalMinted) error {
	if err := i.processMint(ev); err != nil {
		return i.fail("signal_minted", err)
	}
	i.metrics.ObserveEvent("signal_minted")
	return nil
}

func (i *Indexer) processMint(ev SignalMinted) error {
	owner, err := i.resolve.Resolve(ev.GraphAccount)
	if err != nil {
		return err
	}
	curatorID, err := i.resolve.Resolve(ev.NameCurator)
	if err != nil {
		return err
	}
	subgraphID := curation.SubgraphID(owner, ev.SubgraphNumber)
	subgraph, found, err := i.state.Subgraph(subgraphID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", curation.ErrSubgraphNotFound, subgraphID)
	}

	eventData := badges.EventData{
		BlockNumber:     ev.Block,
		TransactionHash: ev.TxHash,
		Timestamp:       ev.Timestamp,
		Metadata: []badges.EventMetadata{
			{Name: metadataNameTokens, Value: ev.TokensDeposited.String()},
			{Name: metadataNameCurator, Value: curatorID},
			{Name: metadataNameSubgraph, Value: subgraphID},
		},
	}

	signal, _, err := i.state.LoadOrCreateNameSignal(curatorID, subgraphID)
	if err != nil {
		return err
	}
	activated := signal.ApplyMint(ev.NSignalCreated, ev.VSignalCreated, ev.TokensDeposited)
	if err := i.state.PutNameSignal(signal); err != nil {
		return err
	}

	if activated {
		if err := i.incrementMetric(curatorID, progress.MetricCuratorSubgraphsSignalled, eventData); err != nil {
			return err
		}
		curatorIsOwner := owner == curatorID
		window := new(big.Int).Sub(ev.Block, subgraph.BlockPublished)
		if window.Cmp(apeWindowBlocks) <= 0 && !curatorIsOwner {
			if err := i.incrementMetric(curatorID, progress.MetricCuratorApe, eventData); err != nil {
				return err
			}
		}
		if curatorIsOwner {
			if err := i.incrementMetric(curatorID, progress.MetricCuratorHouseOdds, eventData); err != nil {
				return err
			}
		}
	}

	if _, _, err := i.state.LoadOrCreatePublisher(owner); err != nil {
		return err
	}
	change, err := i.accum.Add(owner, progress.MetricPublisherSignalAttracted, ev.TokensDeposited)
	if err != nil {
		return err
	}
	return i.evaluateRules(change, eventData)
}

// OnSignalBurned applies a withdrawal to the curator's position.
func (i *Indexer) OnSignalBurned(ev SignalBurned) error {
	if err := i.processBurn(ev); err != nil {
		return i.fail("signal_burned", err)
	}
	i.metrics.ObserveEvent("signal_burned")
	return nil
}

func (i *Indexer) processBurn(ev SignalBurned) error {
	owner, err := i.resolve.Resolve(ev.GraphAccount)
	if err != nil {
		return err
	}
	curatorID, err := i.resolve.Resolve(ev.NameCurator)
	if err != nil {
		return err
	}
	subgraphID := curation.SubgraphID(owner, ev.SubgraphNumber)
	if _, found, err := i.state.Subgraph(subgraphID); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("%w: %s", curation.ErrSubgraphNotFound, subgraphID)
	}

	signal, _, err := i.state.LoadOrCreateNameSignal(curatorID, subgraphID)
	if err != nil {
		return err
	}
	if err := signal.ApplyBurn(ev.NSignalBurnt, ev.VSignalBurnt, ev.TokensReceived); err != nil {
		return err
	}
	if err := i.state.PutNameSignal(signal); err != nil {
		return err
	}

	eventData := badges.EventData{
		BlockNumber:     ev.Block,
		TransactionHash: ev.TxHash,
		Timestamp:       ev.Timestamp,
	}
	change, err := i.accum.Subtract(owner, progress.MetricPublisherSignalAttracted, ev.TokensReceived)
	if err != nil {
		return err
	}
	return i.evaluateRules(change, eventData)
}

func (i *Indexer) incrementMetric(account, metric string, eventData badges.EventData) error {
	change, err := i.accum.Increment(account, metric)
	if err != nil {
		return err
	}
	return i.evaluateRules(change, eventData)
}

// evaluateRules issues a badge for every configured rule the change crossed.
func (i *Indexer) evaluateRules(change progress.Change, eventData badges.EventData) error {
	for _, rule := range i.rules {
		if rule.Metric != change.Metric || !change.Crossed(rule.Threshold) {
			continue
		}
		def, found, err := i.state.BadgeDefinition(rule.Definition)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", badges.ErrDefinitionNotFound, rule.Definition)
		}
		if err := i.engine.Issue(def, change.Account, eventData); err != nil {
			return err
		}
		i.metrics.ObserveBadgeAwarded(def.ID)
		i.logger.Info("badge awarded",
			slog.String("definition", def.ID),
			slog.String("winner", change.Account),
			slog.String("metric", change.Metric))
	}
	return nil
}

func (i *Indexer) fail(kind string, err error) error {
	i.metrics.ObserveEventFailure(kind)
	i.logger.Error("event aborted", slog.String("type", kind), slog.Any("error", err))
	return err
}

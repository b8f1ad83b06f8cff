package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"emblem/core"
)

// envelope is one line of the JSONL event log. Numeric fields travel as
// decimal strings so block numbers and token amounts survive any magnitude.
type envelope struct {
	Type string `json:"type"`

	GraphAccount   string `json:"graphAccount"`
	SubgraphNumber string `json:"subgraphNumber"`
	NameCurator    string `json:"nameCurator"`
	NSignal        string `json:"nSignal"`
	VSignal        string `json:"vSignal"`
	Tokens         string `json:"tokens"`

	Wallet      string `json:"wallet"`
	Beneficiary string `json:"beneficiary"`

	Block     string `json:"block"`
	TxHash    string `json:"txHash"`
	Timestamp string `json:"timestamp"`
}

func replayFile(indexer *core.Indexer, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return count, fmt.Errorf("line %d: %w", count+1, err)
		}
		if err := dispatch(indexer, env); err != nil {
			return count, fmt.Errorf("line %d: %w", count+1, err)
		}
		count++
	}
	return count, scanner.Err()
}

func dispatch(indexer *core.Indexer, env envelope) error {
	switch env.Type {
	case "subgraph_published":
		block, err := parseBig(env.Block)
		if err != nil {
			return err
		}
		return indexer.OnSubgraphPublished(core.SubgraphPublished{
			GraphAccount:   env.GraphAccount,
			SubgraphNumber: env.SubgraphNumber,
			Block:          block,
		})
	case "lock_wallet_created":
		return indexer.OnLockWalletCreated(core.LockWalletCreated{
			Wallet:      env.Wallet,
			Beneficiary: env.Beneficiary,
		})
	case "signal_minted":
		nSignal, vSignal, tokens, block, timestamp, err := parseSignalFields(env)
		if err != nil {
			return err
		}
		return indexer.OnSignalMinted(core.SignalMinted{
			GraphAccount:    env.GraphAccount,
			SubgraphNumber:  env.SubgraphNumber,
			NameCurator:     env.NameCurator,
			NSignalCreated:  nSignal,
			VSignalCreated:  vSignal,
			TokensDeposited: tokens,
			Block:           block,
			TxHash:          env.TxHash,
			Timestamp:       timestamp,
		})
	case "signal_burned":
		nSignal, vSignal, tokens, block, timestamp, err := parseSignalFields(env)
		if err != nil {
			return err
		}
		return indexer.OnSignalBurned(core.SignalBurned{
			GraphAccount:   env.GraphAccount,
			SubgraphNumber: env.SubgraphNumber,
			NameCurator:    env.NameCurator,
			NSignalBurnt:   nSignal,
			VSignalBurnt:   vSignal,
			TokensReceived: tokens,
			Block:          block,
			TxHash:         env.TxHash,
			Timestamp:      timestamp,
		})
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
}

func parseSignalFields(env envelope) (*big.Int, decimal.Decimal, *big.Int, *big.Int, *big.Int, error) {
	nSignal, err := parseBig(env.NSignal)
	if err != nil {
		return nil, decimal.Decimal{}, nil, nil, nil, err
	}
	vSignal, err := decimal.NewFromString(orZero(env.VSignal))
	if err != nil {
		return nil, decimal.Decimal{}, nil, nil, nil, err
	}
	tokens, err := parseBig(env.Tokens)
	if err != nil {
		return nil, decimal.Decimal{}, nil, nil, nil, err
	}
	block, err := parseBig(env.Block)
	if err != nil {
		return nil, decimal.Decimal{}, nil, nil, nil, err
	}
	timestamp, err := parseBig(env.Timestamp)
	if err != nil {
		return nil, decimal.Decimal{}, nil, nil, nil, err
	}
	return nSignal, vSignal, tokens, block, timestamp, nil
}

func parseBig(s string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(orZero(s), 10)
	if !ok {
		return nil, fmt.Errorf("bad integer %q", s)
	}
	return value, nil
}

func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}

package core

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// SignalMinted is the inbound deposit event: a curator minted name signal on
// a subgraph. Account ids arrive raw and are resolved to their canonical
// beneficiary before any state is touched.
type SignalMinted struct {
	GraphAccount    string
	SubgraphNumber  string
	NameCurator     string
	NSignalCreated  *big.Int
	VSignalCreated  decimal.Decimal
	TokensDeposited *big.Int

	Block     *big.Int
	TxHash    string
	Timestamp *big.Int
}

// SignalBurned is the inbound withdrawal event.
type SignalBurned struct {
	GraphAccount   string
	SubgraphNumber string
	NameCurator    string
	NSignalBurnt   *big.Int
	VSignalBurnt   decimal.Decimal
	TokensReceived *big.Int

	Block     *big.Int
	TxHash    string
	Timestamp *big.Int
}

// SubgraphPublished announces the anchor record signal events will later
// reference.
type SubgraphPublished struct {
	GraphAccount   string
	SubgraphNumber string
	Block          *big.Int
}

// LockWalletCreated registers a custodial wallet and its beneficiary for
// identity resolution.
type LockWalletCreated struct {
	Wallet      string
	Beneficiary string
}

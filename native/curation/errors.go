package curation

import "errors"

var (
	ErrSubgraphNotFound = errors.New("curation: subgraph not registered")
	ErrNegativeSignal   = errors.New("curation: signal balance underflow")
	ErrNilSignal        = errors.New("curation: nil name signal")
)

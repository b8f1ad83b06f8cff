package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"emblem/core/state"
)

// Server exposes a read-only query surface over the derived state. It
// carries no mutation; all writes flow through the event indexer.
type Server struct {
	state  *state.Manager
	logger *slog.Logger
	router chi.Router
}

// NewServer builds the HTTP surface over the given state manager.
func NewServer(mgr *state.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{state: mgr, logger: logger}
	r := chi.NewRouter()
	r.Get("/v1/stats", s.handleStats)
	r.Get("/v1/accounts/{id}", s.handleAccount)
	r.Get("/v1/badges/{name}", s.handleDefinition)
	r.Get("/v1/awards/{id}", s.handleAward)
	r.Get("/v1/signals/{id}", s.handleSignal)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r
	return s
}

// Handler returns the root handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the query API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("query API listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

type statsResponse struct {
	VoterCount     int `json:"voterCount"`
	IndexerCount   int `json:"indexerCount"`
	DelegatorCount int `json:"delegatorCount"`
	CuratorCount   int `json:"curatorCount"`
	PublisherCount int `json:"publisherCount"`
	AwardCount     int `json:"awardCount"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.state.EntityStats()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, statsResponse{
		VoterCount:     stats.VoterCount,
		IndexerCount:   stats.IndexerCount,
		DelegatorCount: stats.DelegatorCount,
		CuratorCount:   stats.CuratorCount,
		PublisherCount: stats.PublisherCount,
		AwardCount:     stats.AwardCount,
	})
}

type accountResponse struct {
	ID                string `json:"id"`
	AwardCount        int    `json:"awardCount"`
	VotingPower       string `json:"votingPower"`
	GraphAwardCount   int    `json:"graphAwardCount"`
	GraphVotingPower  string `json:"graphVotingPower"`
	UniqueSignalCount *int   `json:"uniqueSignalCount,omitempty"`
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	acct, found, err := s.state.Account(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	resp := accountResponse{
		ID:               acct.ID,
		AwardCount:       acct.Winner.AwardCount,
		VotingPower:      acct.Winner.VotingPower.String(),
		GraphAwardCount:  acct.Graph.AwardCount,
		GraphVotingPower: acct.Graph.VotingPower.String(),
	}
	if curator, found, err := s.state.Curator(id); err != nil {
		s.fail(w, err)
		return
	} else if found {
		resp.UniqueSignalCount = &curator.UniqueSignalCount
	}
	s.respond(w, resp)
}

type definitionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Track       string `json:"track"`
	VotingPower string `json:"votingPower"`
	Image       string `json:"image,omitempty"`
	AwardCount  int    `json:"awardCount"`
}

func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, found, err := s.state.BadgeDefinition(name)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	s.respond(w, definitionResponse{
		ID:          def.ID,
		Description: def.Description,
		Track:       def.Track,
		VotingPower: def.VotingPower.String(),
		Image:       def.Image,
		AwardCount:  def.AwardCount,
	})
}

type awardResponse struct {
	ID                string `json:"id"`
	Winner            string `json:"winner"`
	Definition        string `json:"definition"`
	BlockAwarded      string `json:"blockAwarded"`
	TransactionHash   string `json:"transactionHash"`
	TimestampAwarded  string `json:"timestampAwarded"`
	GlobalAwardNumber int    `json:"globalAwardNumber"`
	AwardNumber       int    `json:"awardNumber"`
}

func (s *Server) handleAward(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	award, found, err := s.state.BadgeAward(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	s.respond(w, awardResponse{
		ID:                award.ID,
		Winner:            award.Winner,
		Definition:        award.Definition,
		BlockAwarded:      award.BlockAwarded.String(),
		TransactionHash:   award.TransactionHash,
		TimestampAwarded:  award.TimestampAwarded.String(),
		GlobalAwardNumber: award.GlobalAwardNumber,
		AwardNumber:       award.AwardNumber,
	})
}

type signalResponse struct {
	ID                string `json:"id"`
	Curator           string `json:"curator"`
	Subgraph          string `json:"subgraph"`
	NameSignal        string `json:"nameSignal"`
	Signal            string `json:"signal"`
	SignalledTokens   string `json:"signalledTokens"`
	UnsignalledTokens string `json:"unsignalledTokens"`

	NameSignalAverageCostBasis          string `json:"nameSignalAverageCostBasis"`
	NameSignalAverageCostBasisPerSignal string `json:"nameSignalAverageCostBasisPerSignal"`
	SignalAverageCostBasis              string `json:"signalAverageCostBasis"`
	SignalAverageCostBasisPerSignal     string `json:"signalAverageCostBasisPerSignal"`
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	signal, found, err := s.state.NameSignal(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	s.respond(w, signalResponse{
		ID:                id,
		Curator:           signal.Curator,
		Subgraph:          signal.Subgraph,
		NameSignal:        signal.NameSignal.String(),
		Signal:            signal.Signal.String(),
		SignalledTokens:   signal.SignalledTokens.String(),
		UnsignalledTokens: signal.UnsignalledTokens.String(),

		NameSignalAverageCostBasis:          signal.NameSignalAverageCostBasis.String(),
		NameSignalAverageCostBasisPerSignal: signal.NameSignalAverageCostBasisPerSignal.String(),
		SignalAverageCostBasis:              signal.SignalAverageCostBasis.String(),
		SignalAverageCostBasisPerSignal:     signal.SignalAverageCostBasisPerSignal.String(),
	})
}

func (s *Server) respond(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("query failed", slog.Any("error", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

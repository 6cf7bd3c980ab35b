package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	electionfacade "chainvotes/contexts/election-core/election-facade"
	electionhttp "chainvotes/contexts/election-core/election-facade/transport/http"
	structureerrors "chainvotes/contexts/election-core/structure-store/domain/errors"

	_ "chainvotes/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	election electionfacade.Module
}

func New(election electionfacade.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		election: election,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Each context serves its own routes through its module handler; the facade
// keeps only the composed results view. Handlers live in the per-context
// server files alongside their error translation.
func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/election/v1/admins", s.handleAddAdmin)
	s.mux.HandleFunc("DELETE /api/election/v1/admins/{identity}", s.handleRemoveAdmin)
	s.mux.HandleFunc("GET /api/election/v1/admins", s.handleListAdmins)
	s.mux.HandleFunc("GET /api/election/v1/admins/{identity}", s.handleIsAdmin)

	s.mux.HandleFunc("POST /api/election/v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/election/v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/count", s.handleCampaignCount)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/at/{index}", s.handleCampaignIDAt)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /api/election/v1/campaigns/{campaign_id}/status", s.handleChangeStatus)
	s.mux.HandleFunc("POST /api/election/v1/campaigns/{campaign_id}/positions", s.handleAddPosition)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/{campaign_id}/positions/{position_id}", s.handleGetPosition)
	s.mux.HandleFunc(
		"POST /api/election/v1/campaigns/{campaign_id}/positions/{position_id}/candidates",
		s.handleAddCandidate,
	)
	s.mux.HandleFunc(
		"GET /api/election/v1/campaigns/{campaign_id}/positions/{position_id}/candidates/{candidate_id}",
		s.handleGetCandidate,
	)

	s.mux.HandleFunc("POST /api/election/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/{campaign_id}/voters/{identity}", s.handleHasVoted)
	s.mux.HandleFunc("GET /api/election/v1/campaigns/{campaign_id}/ballots", s.handleListBallots)
	s.mux.HandleFunc(
		"GET /api/election/v1/campaigns/{campaign_id}/positions/{position_id}/tally",
		s.handlePositionTally,
	)

	s.mux.HandleFunc("GET /api/election/v1/campaigns/{campaign_id}/results", s.handleCampaignResults)
}

func (s *Server) handleCampaignResults(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	resp, err := s.election.Handler.CampaignResultsHandler(r.Context(), campaignID)
	if err != nil {
		writeFacadeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeFacadeDomainError covers the results view, whose reads resolve through
// the structure store before the ledger count.
func writeFacadeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, structureerrors.ErrCampaignNotFound):
		writeElectionError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, structureerrors.ErrPositionNotFound):
		writeElectionError(w, http.StatusNotFound, "position_not_found", err.Error())
	case errors.Is(err, structureerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requireCaller reads the caller identity from the X-User-Id header. Every
// mutation needs one; queries stay open.
func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return caller, true
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || value == 0 {
		writeElectionError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

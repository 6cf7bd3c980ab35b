package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ledgererrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	ledgerhttp "chainvotes/contexts/election-core/vote-ledger/transport/http"
)

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidVoterIdentity):
		writeLedgerError(w, http.StatusBadRequest, "invalid_identity", err.Error())
	case errors.Is(err, ledgererrors.ErrCampaignNotFound):
		writeLedgerError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrPositionNotFound):
		writeLedgerError(w, http.StatusNotFound, "position_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrCandidateNotFound):
		writeLedgerError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrCampaignInactive):
		writeLedgerError(w, http.StatusConflict, "campaign_inactive", err.Error())
	case errors.Is(err, ledgererrors.ErrCampaignNotStarted):
		writeLedgerError(w, http.StatusConflict, "campaign_not_started", err.Error())
	case errors.Is(err, ledgererrors.ErrCampaignEnded):
		writeLedgerError(w, http.StatusConflict, "campaign_ended", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyVoted):
		writeLedgerError(w, http.StatusConflict, "already_voted", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Ledger.Handler.CastVoteHandler(r.Context(), voter, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	resp, err := s.election.Ledger.Handler.HasVotedHandler(r.Context(), campaignID, r.PathValue("identity"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBallots(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	resp, err := s.election.Ledger.Handler.ListBallotsHandler(r.Context(), campaignID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePositionTally(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	positionID, ok := parseID(w, r, "position_id")
	if !ok {
		return
	}
	resp, err := s.election.Ledger.Handler.PositionTallyHandler(r.Context(), campaignID, positionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

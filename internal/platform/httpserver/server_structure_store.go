package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	structureerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	structurehttp "chainvotes/contexts/election-core/structure-store/transport/http"
)

func writeStructureError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, structurehttp.ErrorResponse{Code: code, Message: message})
}

func writeStructureDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, structureerrors.ErrInvalidStructureInput):
		writeStructureError(w, http.StatusBadRequest, "invalid_structure_input", err.Error())
	case errors.Is(err, structureerrors.ErrUnauthorized):
		writeStructureError(w, http.StatusForbidden, "admin_only", err.Error())
	case errors.Is(err, structureerrors.ErrInvalidTimeWindow):
		writeStructureError(w, http.StatusUnprocessableEntity, "invalid_time_window", err.Error())
	case errors.Is(err, structureerrors.ErrCampaignNotFound):
		writeStructureError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, structureerrors.ErrPositionNotFound):
		writeStructureError(w, http.StatusNotFound, "position_not_found", err.Error())
	case errors.Is(err, structureerrors.ErrCandidateNotFound):
		writeStructureError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	default:
		writeStructureError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req structurehttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStructureError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Structure.Handler.CreateCampaignHandler(r.Context(), caller, req)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Structure.Handler.ListCampaignsHandler(r.Context())
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignCount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Structure.Handler.GetCampaignCountHandler(r.Context())
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignIDAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeStructureError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return
	}
	resp, err := s.election.Structure.Handler.CampaignIDAtHandler(r.Context(), index)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	resp, err := s.election.Structure.Handler.GetCampaignHandler(r.Context(), campaignID)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	var req structurehttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStructureError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.election.Structure.Handler.ChangeStatusHandler(r.Context(), caller, campaignID, req); err != nil {
		writeStructureDomainError(w, err)
		return
	}
	resp, err := s.election.Structure.Handler.GetCampaignHandler(r.Context(), campaignID)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	var req structurehttp.AddPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStructureError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Structure.Handler.AddPositionHandler(r.Context(), caller, campaignID, req)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	positionID, ok := parseID(w, r, "position_id")
	if !ok {
		return
	}
	resp, err := s.election.Structure.Handler.GetPositionHandler(r.Context(), campaignID, positionID)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	positionID, ok := parseID(w, r, "position_id")
	if !ok {
		return
	}
	var req structurehttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStructureError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Structure.Handler.AddCandidateHandler(r.Context(), caller, campaignID, positionID, req)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(w, r, "campaign_id")
	if !ok {
		return
	}
	positionID, ok := parseID(w, r, "position_id")
	if !ok {
		return
	}
	candidateID, ok := parseID(w, r, "candidate_id")
	if !ok {
		return
	}
	resp, err := s.election.Structure.Handler.GetCandidateHandler(r.Context(), campaignID, positionID, candidateID)
	if err != nil {
		writeStructureDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

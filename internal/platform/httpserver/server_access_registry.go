package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accesserrors "chainvotes/contexts/election-core/access-registry/domain/errors"
	accesshttp "chainvotes/contexts/election-core/access-registry/transport/http"
)

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{Code: code, Message: message})
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrInvalidIdentity):
		writeAccessError(w, http.StatusBadRequest, "invalid_identity", err.Error())
	case errors.Is(err, accesserrors.ErrUnauthorized):
		writeAccessError(w, http.StatusForbidden, "owner_only", err.Error())
	case errors.Is(err, accesserrors.ErrCannotRemoveOwner):
		writeAccessError(w, http.StatusConflict, "cannot_remove_owner", err.Error())
	case errors.Is(err, accesserrors.ErrAdminNotFound):
		writeAccessError(w, http.StatusNotFound, "admin_not_found", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	var req accesshttp.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.election.Access.Handler.AddAdminHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	resp, err := s.election.Access.Handler.IsAdminHandler(r.Context(), req.Identity)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}
	req := accesshttp.AdminRequest{Identity: r.PathValue("identity")}
	if err := s.election.Access.Handler.RemoveAdminHandler(r.Context(), caller, req); err != nil {
		writeAccessDomainError(w, err)
		return
	}
	resp, err := s.election.Access.Handler.IsAdminHandler(r.Context(), req.Identity)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Access.Handler.ListAdminsHandler(r.Context())
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Access.Handler.IsAdminHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

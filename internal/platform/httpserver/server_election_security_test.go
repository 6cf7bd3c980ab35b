package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	electionfacade "chainvotes/contexts/election-core/election-facade"
)

const testOwner = "owner@example.com"

func newTestServer() *Server {
	election := electionfacade.NewInMemoryModule(testOwner, nil, nil)
	return New(election, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, caller string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if caller != "" {
		req.Header.Set("X-User-Id", caller)
	}
	recorder := httptest.NewRecorder()
	server.mux.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body failed: %v", err)
	}
	return resp.Code
}

func TestMutationsRequireCallerHeader(t *testing.T) {
	server := newTestServer()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/election/v1/admins"},
		{http.MethodDelete, "/api/election/v1/admins/alice@example.com"},
		{http.MethodPost, "/api/election/v1/campaigns"},
		{http.MethodPost, "/api/election/v1/campaigns/1/status"},
		{http.MethodPost, "/api/election/v1/campaigns/1/positions"},
		{http.MethodPost, "/api/election/v1/campaigns/1/positions/1/candidates"},
		{http.MethodPost, "/api/election/v1/votes"},
	}
	for _, tc := range cases {
		recorder := doJSON(t, server, tc.method, tc.path, "", map[string]any{})
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, recorder.Code)
		}
		if code := decodeErrorCode(t, recorder); code != "missing_user" {
			t.Fatalf("%s %s: expected missing_user, got %q", tc.method, tc.path, code)
		}
	}
}

func TestAdminMutationsAreOwnerOnly(t *testing.T) {
	server := newTestServer()

	recorder := doJSON(t, server, http.MethodPost, "/api/election/v1/admins",
		"stranger@example.com", map[string]any{"identity": "alice@example.com"})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "owner_only" {
		t.Fatalf("expected owner_only, got %q", code)
	}
}

func TestStructureMutationsAreAdminOnly(t *testing.T) {
	server := newTestServer()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	recorder := doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns",
		"stranger@example.com", map[string]any{
			"name":       "Rogue Election",
			"start_time": start.Unix(),
			"end_time":   start.Add(time.Hour).Unix(),
		})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "admin_only" {
		t.Fatalf("expected admin_only, got %q", code)
	}
}

func TestOwnerCanDriveCampaignSetup(t *testing.T) {
	server := newTestServer()
	start := time.Now().UTC().Add(time.Hour)

	recorder := doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns",
		testOwner, map[string]any{
			"name":       "Board Election",
			"start_time": start.Unix(),
			"end_time":   start.Add(24 * time.Hour).Unix(),
		})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns/1/positions",
		testOwner, map[string]any{"name": "Chair"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201 for position, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/election/v1/campaigns/1", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for campaign read, got %d", recorder.Code)
	}
}

func TestInvalidAndMissingIdentifiers(t *testing.T) {
	server := newTestServer()

	recorder := doJSON(t, server, http.MethodGet, "/api/election/v1/campaigns/abc", "", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "invalid_campaign_id" {
		t.Fatalf("expected invalid_campaign_id, got %q", code)
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/election/v1/campaigns/99", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown campaign, got %d", recorder.Code)
	}
	if code := decodeErrorCode(t, recorder); code != "campaign_not_found" {
		t.Fatalf("expected campaign_not_found, got %q", code)
	}
}

func TestBallotReadsReflectCastVote(t *testing.T) {
	server := newTestServer()
	start := time.Now().UTC().Add(-time.Hour)

	recorder := doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns",
		testOwner, map[string]any{
			"name":       "Board Election",
			"start_time": start.Unix(),
			"end_time":   start.Add(24 * time.Hour).Unix(),
		})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("campaign setup failed: %d %s", recorder.Code, recorder.Body.String())
	}
	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns/1/positions",
		testOwner, map[string]any{"name": "Chair"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("position setup failed: %d", recorder.Code)
	}
	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns/1/positions/1/candidates",
		testOwner, map[string]any{"name": "Alice"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("candidate setup failed: %d", recorder.Code)
	}

	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/votes",
		"voter@example.com", map[string]any{
			"campaign_id":  1,
			"position_id":  1,
			"candidate_id": 1,
		})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201 for in-window vote, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/election/v1/campaigns/1/voters/Voter@Example.com", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for voter lookup, got %d", recorder.Code)
	}
	var participation struct {
		HasVoted bool  `json:"has_voted"`
		VotedAt  int64 `json:"voted_at"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&participation); err != nil {
		t.Fatalf("decode voter lookup failed: %v", err)
	}
	if !participation.HasVoted {
		t.Fatalf("expected has_voted true for cast ballot")
	}
	if participation.VotedAt < start.Unix() {
		t.Fatalf("expected voted_at inside the window, got %d", participation.VotedAt)
	}

	recorder = doJSON(t, server, http.MethodGet, "/api/election/v1/campaigns/1/positions/1/tally", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for tally, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var tally struct {
		BallotCount int `json:"ballot_count"`
		Candidates  []struct {
			CandidateID uint64 `json:"candidate_id"`
			Votes       int    `json:"votes"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&tally); err != nil {
		t.Fatalf("decode tally failed: %v", err)
	}
	if tally.BallotCount != 1 {
		t.Fatalf("expected 1 ballot in tally, got %d", tally.BallotCount)
	}
	if len(tally.Candidates) != 1 || tally.Candidates[0].Votes != 1 {
		t.Fatalf("expected single candidate with one vote, got %+v", tally.Candidates)
	}
}

func TestVoteOutsideWindowIsConflict(t *testing.T) {
	server := newTestServer()
	start := time.Now().UTC().Add(time.Hour)

	recorder := doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns",
		testOwner, map[string]any{
			"name":       "Board Election",
			"start_time": start.Unix(),
			"end_time":   start.Add(24 * time.Hour).Unix(),
		})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("campaign setup failed: %d %s", recorder.Code, recorder.Body.String())
	}
	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns/1/positions",
		testOwner, map[string]any{"name": "Chair"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("position setup failed: %d", recorder.Code)
	}
	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/campaigns/1/positions/1/candidates",
		testOwner, map[string]any{"name": "Alice"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("candidate setup failed: %d", recorder.Code)
	}

	recorder = doJSON(t, server, http.MethodPost, "/api/election/v1/votes",
		"voter@example.com", map[string]any{
			"campaign_id":  1,
			"position_id":  1,
			"candidate_id": 1,
		})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 before window opens, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if code := decodeErrorCode(t, recorder); code != "campaign_not_started" {
		t.Fatalf("expected campaign_not_started, got %q", code)
	}
}

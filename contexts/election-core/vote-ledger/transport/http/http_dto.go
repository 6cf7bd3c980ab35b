package httptransport

// ErrorResponse is the shared error body for ledger endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	CampaignID  uint64 `json:"campaign_id"`
	PositionID  uint64 `json:"position_id"`
	CandidateID uint64 `json:"candidate_id"`
}

type CastVoteResponse struct {
	BallotID    string `json:"ballot_id"`
	CampaignID  uint64 `json:"campaign_id"`
	PositionID  uint64 `json:"position_id"`
	CandidateID uint64 `json:"candidate_id"`
	Voter       string `json:"voter"`
	CastAt      int64  `json:"cast_at"`
}

type HasVotedResponse struct {
	CampaignID uint64 `json:"campaign_id"`
	Voter      string `json:"voter"`
	HasVoted   bool   `json:"has_voted"`
	VotedAt    int64  `json:"voted_at,omitempty"`
}

type BallotItem struct {
	BallotID    string `json:"ballot_id"`
	PositionID  uint64 `json:"position_id"`
	CandidateID uint64 `json:"candidate_id"`
	Voter       string `json:"voter"`
	CastAt      int64  `json:"cast_at"`
}

type BallotListResponse struct {
	CampaignID uint64       `json:"campaign_id"`
	Count      int          `json:"count"`
	Ballots    []BallotItem `json:"ballots"`
}

type CandidateTally struct {
	CandidateID uint64 `json:"candidate_id"`
	Votes       int    `json:"votes"`
}

type PositionTallyResponse struct {
	CampaignID  uint64           `json:"campaign_id"`
	PositionID  uint64           `json:"position_id"`
	BallotCount int              `json:"ballot_count"`
	Candidates  []CandidateTally `json:"candidates"`
}

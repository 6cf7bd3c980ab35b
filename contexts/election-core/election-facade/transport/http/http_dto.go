package httptransport

// ErrorResponse is the error body for facade-owned and cross-cutting
// endpoint failures.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CandidateResultItem struct {
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int    `json:"vote_count"`
}

type PositionResultItem struct {
	PositionID uint64                `json:"position_id"`
	Name       string                `json:"name"`
	Candidates []CandidateResultItem `json:"candidates"`
}

type CampaignResultsResponse struct {
	CampaignID  uint64               `json:"campaign_id"`
	Name        string               `json:"name"`
	IsActive    bool                 `json:"is_active"`
	VoterCount  int                  `json:"voter_count"`
	BallotCount int                  `json:"ballot_count"`
	Positions   []PositionResultItem `json:"positions"`
}

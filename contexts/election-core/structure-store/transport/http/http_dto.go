package httptransport

// ErrorResponse is the shared error body for structure endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Times cross the wire as unix seconds, matching how campaign windows are
// supplied by external indexers.
type CreateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

type CreateCampaignResponse struct {
	CampaignID uint64 `json:"campaign_id"`
}

type ChangeStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type AddPositionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddPositionResponse struct {
	PositionID uint64 `json:"position_id"`
}

type AddCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddCandidateResponse struct {
	CandidateID uint64 `json:"candidate_id"`
}

type CampaignResponse struct {
	CampaignID  uint64   `json:"campaign_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartTime   int64    `json:"start_time"`
	EndTime     int64    `json:"end_time"`
	IsActive    bool     `json:"is_active"`
	VoterCount  int      `json:"voter_count"`
	PositionIDs []uint64 `json:"position_ids"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   int64    `json:"created_at"`
}

type CampaignCountResponse struct {
	Count int `json:"count"`
}

type CampaignIDResponse struct {
	CampaignID uint64 `json:"campaign_id"`
}

type CampaignListResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
}

type PositionResponse struct {
	CampaignID   uint64   `json:"campaign_id"`
	PositionID   uint64   `json:"position_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CandidateIDs []uint64 `json:"candidate_ids"`
	CreatedAt    int64    `json:"created_at"`
}

type CandidateResponse struct {
	CampaignID  uint64 `json:"campaign_id"`
	PositionID  uint64 `json:"position_id"`
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
	CreatedAt   int64  `json:"created_at"`
}

package entities

import "time"

// Candidate is an option a voter may select for a position. VoteCount starts
// at zero and only the vote-ledger module increments it.
type Candidate struct {
	CandidateID uint64
	PositionID  uint64
	CampaignID  uint64
	Name        string
	Description string
	VoteCount   int
	CreatedAt   time.Time
}

package entities

import "time"

// Ballot is one accepted vote. The voter identity is stored normalized so
// the per-campaign uniqueness rule is case-insensitive.
type Ballot struct {
	BallotID    string
	CampaignID  uint64
	PositionID  uint64
	CandidateID uint64
	Voter       string
	CastAt      time.Time
}

// Participation marks that a voter has cast their single ballot in a
// campaign. It exists separately from Ballot so the "has voted" check stays
// a point lookup.
type Participation struct {
	CampaignID uint64
	Voter      string
	VotedAt    time.Time
}

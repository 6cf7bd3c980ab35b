package entities

import "time"

// Position is a contested role within a campaign. Its id is unique within
// the owning campaign only.
type Position struct {
	PositionID   uint64
	CampaignID   uint64
	Name         string
	Description  string
	CandidateIDs []uint64
	CreatedAt    time.Time
}

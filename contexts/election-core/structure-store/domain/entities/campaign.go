package entities

import (
	"strings"
	"time"
)

type Campaign struct {
	CampaignID  uint64
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	IsActive    bool
	VoterCount  int
	PositionIDs []uint64
	CreatedBy   string
	CreatedAt   time.Time
}

// HasValidWindow reports whether the voting window is well formed. Start
// relative to the current time is deliberately not validated: future-dated
// and past-dated campaigns are both permitted.
func (c Campaign) HasValidWindow() bool {
	return c.EndTime.After(c.StartTime)
}

// ValidLabel reports whether a name supplied for a campaign, position, or
// candidate is acceptable.
func ValidLabel(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= 200
}

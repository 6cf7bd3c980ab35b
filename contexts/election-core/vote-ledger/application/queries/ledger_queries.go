package queries

import (
	"context"
	"strings"

	"chainvotes/contexts/election-core/vote-ledger/domain/entities"
	"chainvotes/contexts/election-core/vote-ledger/ports"
)

// LedgerQueries serves the read-only ballot surface.
type LedgerQueries struct {
	Ballots ports.BallotRepository
}

// HasVoted reports whether identity already holds a ballot in the campaign.
// A blank identity has trivially not voted.
func (q LedgerQueries) HasVoted(ctx context.Context, campaignID uint64, voter string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(voter))
	if normalized == "" {
		return false, nil
	}
	return q.Ballots.HasVoted(ctx, campaignID, normalized)
}

// GetParticipation returns the voter's participation record when present.
func (q LedgerQueries) GetParticipation(
	ctx context.Context,
	campaignID uint64,
	voter string,
) (entities.Participation, bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(voter))
	if normalized == "" {
		return entities.Participation{}, false, nil
	}
	return q.Ballots.GetParticipation(ctx, campaignID, normalized)
}

func (q LedgerQueries) ListBallots(ctx context.Context, campaignID uint64) ([]entities.Ballot, error) {
	return q.Ballots.ListBallotsByCampaign(ctx, campaignID)
}

func (q LedgerQueries) CountBallots(ctx context.Context, campaignID uint64) (int, error) {
	return q.Ballots.CountBallotsByCampaign(ctx, campaignID)
}

// PositionTally aggregates accepted ballots per candidate of one position.
type PositionTally struct {
	CampaignID  uint64
	PositionID  uint64
	BallotCount int
	ByCandidate map[uint64]int
}

// TallyPosition recounts ballots for one position from the ledger. It reads
// the ballots rather than the structure store's counters, so it doubles as a
// verification path for the published tallies.
func (q LedgerQueries) TallyPosition(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
) (PositionTally, error) {
	ballots, err := q.Ballots.ListBallotsByCampaign(ctx, campaignID)
	if err != nil {
		return PositionTally{}, err
	}
	tally := PositionTally{
		CampaignID:  campaignID,
		PositionID:  positionID,
		ByCandidate: make(map[uint64]int),
	}
	for _, ballot := range ballots {
		if ballot.PositionID != positionID {
			continue
		}
		tally.BallotCount++
		tally.ByCandidate[ballot.CandidateID]++
	}
	return tally, nil
}

package structureadapter

import (
	"context"
	"errors"

	structurequeries "chainvotes/contexts/election-core/structure-store/application/queries"
	structureerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	ledgererrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	"chainvotes/contexts/election-core/vote-ledger/ports"
)

// Reader resolves vote targets through the structure store's query surface
// and translates its not-found errors into the ledger's vocabulary.
type Reader struct {
	Queries structurequeries.StructureQueries
}

func (r Reader) GetVoteTarget(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (ports.VoteTarget, error) {
	target, err := r.Queries.GetVoteTarget(ctx, campaignID, positionID, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, structureerrors.ErrCampaignNotFound):
			return ports.VoteTarget{}, ledgererrors.ErrCampaignNotFound
		case errors.Is(err, structureerrors.ErrPositionNotFound):
			return ports.VoteTarget{}, ledgererrors.ErrPositionNotFound
		case errors.Is(err, structureerrors.ErrCandidateNotFound):
			return ports.VoteTarget{}, ledgererrors.ErrCandidateNotFound
		default:
			return ports.VoteTarget{}, err
		}
	}
	return ports.VoteTarget{
		CampaignID:  target.CampaignID,
		PositionID:  target.PositionID,
		CandidateID: target.CandidateID,
		IsActive:    target.IsActive,
		StartTime:   target.StartTime,
		EndTime:     target.EndTime,
	}, nil
}

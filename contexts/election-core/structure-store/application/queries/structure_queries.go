package queries

import (
	"context"

	"chainvotes/contexts/election-core/structure-store/domain/entities"
	"chainvotes/contexts/election-core/structure-store/ports"
)

// StructureQueries serves the read-only surface. Queries never mutate and
// never require authorization.
type StructureQueries struct {
	Structure ports.StructureRepository
}

func (q StructureQueries) GetCampaignCount(ctx context.Context) (int, error) {
	return q.Structure.CampaignCount(ctx)
}

func (q StructureQueries) GetCampaignDetails(ctx context.Context, campaignID uint64) (entities.Campaign, error) {
	return q.Structure.GetCampaign(ctx, campaignID)
}

func (q StructureQueries) GetPositionDetails(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
) (entities.Position, error) {
	return q.Structure.GetPosition(ctx, campaignID, positionID)
}

func (q StructureQueries) GetCandidateDetails(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (entities.Candidate, error) {
	return q.Structure.GetCandidate(ctx, campaignID, positionID, candidateID)
}

// CampaignIDAt supports index-based enumeration of campaign ids, mirroring
// how external indexers page through campaigns.
func (q StructureQueries) CampaignIDAt(ctx context.Context, index int) (uint64, error) {
	return q.Structure.CampaignIDAt(ctx, index)
}

func (q StructureQueries) ListCampaigns(ctx context.Context) ([]entities.Campaign, error) {
	return q.Structure.ListCampaigns(ctx)
}

// GetVoteTarget resolves a correctly nested (campaign, position, candidate)
// triple for the vote-ledger. Nesting is verified by the repository lookups.
func (q StructureQueries) GetVoteTarget(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (ports.VoteTarget, error) {
	campaign, err := q.Structure.GetCampaign(ctx, campaignID)
	if err != nil {
		return ports.VoteTarget{}, err
	}
	if _, err := q.Structure.GetPosition(ctx, campaignID, positionID); err != nil {
		return ports.VoteTarget{}, err
	}
	candidate, err := q.Structure.GetCandidate(ctx, campaignID, positionID, candidateID)
	if err != nil {
		return ports.VoteTarget{}, err
	}
	return ports.VoteTarget{
		CampaignID:  campaign.CampaignID,
		PositionID:  positionID,
		CandidateID: candidate.CandidateID,
		IsActive:    campaign.IsActive,
		StartTime:   campaign.StartTime,
		EndTime:     campaign.EndTime,
	}, nil
}

package httpadapter

import (
	"context"
	"log/slog"

	"chainvotes/contexts/election-core/election-facade/application"
	httptransport "chainvotes/contexts/election-core/election-facade/transport/http"
)

// Handler serves the composed views the facade owns. Per-service routes go
// straight to each context's handler; only cross-module aggregation lands
// here.
type Handler struct {
	Election application.Service
	Logger   *slog.Logger
}

func (h Handler) CampaignResultsHandler(
	ctx context.Context,
	campaignID uint64,
) (httptransport.CampaignResultsResponse, error) {
	results, err := h.Election.GetCampaignResults(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResultsResponse{}, err
	}
	positions := make([]httptransport.PositionResultItem, 0, len(results.Positions))
	for _, position := range results.Positions {
		candidates := make([]httptransport.CandidateResultItem, 0, len(position.Candidates))
		for _, candidate := range position.Candidates {
			candidates = append(candidates, httptransport.CandidateResultItem{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				VoteCount:   candidate.VoteCount,
			})
		}
		positions = append(positions, httptransport.PositionResultItem{
			PositionID: position.PositionID,
			Name:       position.Name,
			Candidates: candidates,
		})
	}
	return httptransport.CampaignResultsResponse{
		CampaignID:  results.CampaignID,
		Name:        results.Name,
		IsActive:    results.IsActive,
		VoterCount:  results.VoterCount,
		BallotCount: results.BallotCount,
		Positions:   positions,
	}, nil
}

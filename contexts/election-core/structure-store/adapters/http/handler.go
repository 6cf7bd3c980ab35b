package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"chainvotes/contexts/election-core/structure-store/application/commands"
	"chainvotes/contexts/election-core/structure-store/application/queries"
	"chainvotes/contexts/election-core/structure-store/domain/entities"
	httptransport "chainvotes/contexts/election-core/structure-store/transport/http"
)

type Handler struct {
	Commands commands.StructureUseCase
	Queries  queries.StructureQueries
	Logger   *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	campaignID, err := h.Commands.CreateCampaign(ctx, commands.CreateCampaignCommand{
		Caller:      caller,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   time.Unix(req.StartTime, 0).UTC(),
		EndTime:     time.Unix(req.EndTime, 0).UTC(),
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{CampaignID: campaignID}, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	caller string,
	campaignID uint64,
	req httptransport.ChangeStatusRequest,
) error {
	return h.Commands.ChangeCampaignStatus(ctx, commands.ChangeStatusCommand{
		Caller:     caller,
		CampaignID: campaignID,
		IsActive:   req.IsActive,
	})
}

func (h Handler) AddPositionHandler(
	ctx context.Context,
	caller string,
	campaignID uint64,
	req httptransport.AddPositionRequest,
) (httptransport.AddPositionResponse, error) {
	positionID, err := h.Commands.AddPosition(ctx, commands.AddPositionCommand{
		Caller:      caller,
		CampaignID:  campaignID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.AddPositionResponse{}, err
	}
	return httptransport.AddPositionResponse{PositionID: positionID}, nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	caller string,
	campaignID uint64,
	positionID uint64,
	req httptransport.AddCandidateRequest,
) (httptransport.AddCandidateResponse, error) {
	candidateID, err := h.Commands.AddCandidate(ctx, commands.AddCandidateCommand{
		Caller:      caller,
		CampaignID:  campaignID,
		PositionID:  positionID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.AddCandidateResponse{}, err
	}
	return httptransport.AddCandidateResponse{CandidateID: candidateID}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID uint64) (httptransport.CampaignResponse, error) {
	campaign, err := h.Queries.GetCampaignDetails(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return toCampaignResponse(campaign), nil
}

func (h Handler) GetCampaignCountHandler(ctx context.Context) (httptransport.CampaignCountResponse, error) {
	count, err := h.Queries.GetCampaignCount(ctx)
	if err != nil {
		return httptransport.CampaignCountResponse{}, err
	}
	return httptransport.CampaignCountResponse{Count: count}, nil
}

func (h Handler) CampaignIDAtHandler(ctx context.Context, index int) (httptransport.CampaignIDResponse, error) {
	campaignID, err := h.Queries.CampaignIDAt(ctx, index)
	if err != nil {
		return httptransport.CampaignIDResponse{}, err
	}
	return httptransport.CampaignIDResponse{CampaignID: campaignID}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context) (httptransport.CampaignListResponse, error) {
	campaigns, err := h.Queries.ListCampaigns(ctx)
	if err != nil {
		return httptransport.CampaignListResponse{}, err
	}
	items := make([]httptransport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, toCampaignResponse(campaign))
	}
	return httptransport.CampaignListResponse{Campaigns: items}, nil
}

func (h Handler) GetPositionHandler(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
) (httptransport.PositionResponse, error) {
	position, err := h.Queries.GetPositionDetails(ctx, campaignID, positionID)
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return httptransport.PositionResponse{
		CampaignID:   position.CampaignID,
		PositionID:   position.PositionID,
		Name:         position.Name,
		Description:  position.Description,
		CandidateIDs: position.CandidateIDs,
		CreatedAt:    position.CreatedAt.Unix(),
	}, nil
}

func (h Handler) GetCandidateHandler(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Queries.GetCandidateDetails(ctx, campaignID, positionID, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return httptransport.CandidateResponse{
		CampaignID:  candidate.CampaignID,
		PositionID:  candidate.PositionID,
		CandidateID: candidate.CandidateID,
		Name:        candidate.Name,
		Description: candidate.Description,
		VoteCount:   candidate.VoteCount,
		CreatedAt:   candidate.CreatedAt.Unix(),
	}, nil
}

func toCampaignResponse(campaign entities.Campaign) httptransport.CampaignResponse {
	return httptransport.CampaignResponse{
		CampaignID:  campaign.CampaignID,
		Name:        campaign.Name,
		Description: campaign.Description,
		StartTime:   campaign.StartTime.Unix(),
		EndTime:     campaign.EndTime.Unix(),
		IsActive:    campaign.IsActive,
		VoterCount:  campaign.VoterCount,
		PositionIDs: campaign.PositionIDs,
		CreatedBy:   campaign.CreatedBy,
		CreatedAt:   campaign.CreatedAt.Unix(),
	}
}

package commands

import (
	"context"
	"strings"

	application "chainvotes/contexts/election-core/structure-store/application"
	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
)

type AddCandidateCommand struct {
	Caller      string
	CampaignID  uint64
	PositionID  uint64
	Name        string
	Description string
}

func (uc StructureUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (uint64, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.Caller); err != nil {
		logger.Warn("candidate add rejected",
			"event", "structure_candidate_add_unauthorized",
			"module", "election-core/structure-store",
			"layer", "application",
			"caller", strings.TrimSpace(cmd.Caller),
			"campaign_id", cmd.CampaignID,
			"position_id", cmd.PositionID,
		)
		return 0, err
	}
	if !entities.ValidLabel(cmd.Name) {
		return 0, domainerrors.ErrInvalidStructureInput
	}

	now := uc.now()
	candidateID, err := uc.Structure.AddCandidate(ctx, entities.Candidate{
		CampaignID:  cmd.CampaignID,
		PositionID:  cmd.PositionID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
	})
	if err != nil {
		return 0, err
	}

	if err := uc.appendEvent(ctx, "candidate.created", cmd.CampaignID, now, map[string]any{
		"campaign_id":  cmd.CampaignID,
		"position_id":  cmd.PositionID,
		"candidate_id": candidateID,
		"name":         strings.TrimSpace(cmd.Name),
	}); err != nil {
		return 0, err
	}

	logger.Info("candidate created",
		"event", "structure_candidate_created",
		"module", "election-core/structure-store",
		"layer", "application",
		"campaign_id", cmd.CampaignID,
		"position_id", cmd.PositionID,
		"candidate_id", candidateID,
		"name", strings.TrimSpace(cmd.Name),
	)
	return candidateID, nil
}

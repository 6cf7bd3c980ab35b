package commands

import (
	"context"
	"strings"

	application "chainvotes/contexts/election-core/structure-store/application"
	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
)

type AddPositionCommand struct {
	Caller      string
	CampaignID  uint64
	Name        string
	Description string
}

func (uc StructureUseCase) AddPosition(ctx context.Context, cmd AddPositionCommand) (uint64, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.Caller); err != nil {
		logger.Warn("position add rejected",
			"event", "structure_position_add_unauthorized",
			"module", "election-core/structure-store",
			"layer", "application",
			"caller", strings.TrimSpace(cmd.Caller),
			"campaign_id", cmd.CampaignID,
		)
		return 0, err
	}
	if !entities.ValidLabel(cmd.Name) {
		return 0, domainerrors.ErrInvalidStructureInput
	}

	now := uc.now()
	positionID, err := uc.Structure.AddPosition(ctx, entities.Position{
		CampaignID:  cmd.CampaignID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
	})
	if err != nil {
		return 0, err
	}

	if err := uc.appendEvent(ctx, "position.created", cmd.CampaignID, now, map[string]any{
		"campaign_id": cmd.CampaignID,
		"position_id": positionID,
		"name":        strings.TrimSpace(cmd.Name),
	}); err != nil {
		return 0, err
	}

	logger.Info("position created",
		"event", "structure_position_created",
		"module", "election-core/structure-store",
		"layer", "application",
		"campaign_id", cmd.CampaignID,
		"position_id", positionID,
		"name", strings.TrimSpace(cmd.Name),
	)
	return positionID, nil
}

package commands

import (
	"context"
	"strings"

	application "chainvotes/contexts/election-core/structure-store/application"
)

// ChangeStatusCommand toggles a campaign's active flag.
type ChangeStatusCommand struct {
	Caller     string
	CampaignID uint64
	IsActive   bool
}

// ChangeCampaignStatus flips the admin-controlled half of the campaign state
// machine. The time window is intentionally not re-validated: an admin may
// reactivate an already-ended campaign (the window check in cast-vote still
// blocks late ballots, so this only affects the flag and tally-freeze
// toggling).
func (uc StructureUseCase) ChangeCampaignStatus(ctx context.Context, cmd ChangeStatusCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.Caller); err != nil {
		logger.Warn("campaign status change rejected",
			"event", "structure_campaign_status_unauthorized",
			"module", "election-core/structure-store",
			"layer", "application",
			"caller", strings.TrimSpace(cmd.Caller),
			"campaign_id", cmd.CampaignID,
		)
		return err
	}

	if err := uc.Structure.UpdateCampaignStatus(ctx, cmd.CampaignID, cmd.IsActive); err != nil {
		return err
	}

	now := uc.now()
	if err := uc.appendEvent(ctx, "campaign.status_changed", cmd.CampaignID, now, map[string]any{
		"campaign_id": cmd.CampaignID,
		"is_active":   cmd.IsActive,
	}); err != nil {
		return err
	}

	logger.Info("campaign status changed",
		"event", "structure_campaign_status_changed",
		"module", "election-core/structure-store",
		"layer", "application",
		"campaign_id", cmd.CampaignID,
		"is_active", cmd.IsActive,
	)
	return nil
}

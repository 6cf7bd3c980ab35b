package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "chainvotes/contexts/election-core/structure-store/application"
	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	"chainvotes/contexts/election-core/structure-store/ports"
)

// CreateCampaignCommand is the write-model input for campaign creation.
// StartTime and EndTime are absolute; only their relative order is validated.
type CreateCampaignCommand struct {
	Caller      string
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// StructureUseCase orchestrates structural mutations: campaign creation and
// status toggling, position and candidate registration. Every command checks
// the caller against the admin registry before touching state.
type StructureUseCase struct {
	Structure ports.StructureRepository
	Admins    ports.AdminRegistry
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc StructureUseCase) CreateCampaign(ctx context.Context, cmd CreateCampaignCommand) (uint64, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.Caller); err != nil {
		logger.Warn("campaign create rejected",
			"event", "structure_campaign_create_unauthorized",
			"module", "election-core/structure-store",
			"layer", "application",
			"caller", strings.TrimSpace(cmd.Caller),
		)
		return 0, err
	}
	if !entities.ValidLabel(cmd.Name) {
		return 0, domainerrors.ErrInvalidStructureInput
	}

	now := uc.now()
	campaign := entities.Campaign{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		StartTime:   cmd.StartTime.UTC(),
		EndTime:     cmd.EndTime.UTC(),
		IsActive:    true,
		CreatedBy:   normalizeIdentity(cmd.Caller),
		CreatedAt:   now,
	}
	if !campaign.HasValidWindow() {
		return 0, domainerrors.ErrInvalidTimeWindow
	}

	campaignID, err := uc.Structure.CreateCampaign(ctx, campaign)
	if err != nil {
		return 0, err
	}

	if err := uc.appendEvent(ctx, "campaign.created", campaignID, now, map[string]any{
		"campaign_id": campaignID,
		"name":        campaign.Name,
		"start_time":  campaign.StartTime.Unix(),
		"end_time":    campaign.EndTime.Unix(),
	}); err != nil {
		return 0, err
	}

	logger.Info("campaign created",
		"event", "structure_campaign_created",
		"module", "election-core/structure-store",
		"layer", "application",
		"campaign_id", campaignID,
		"name", campaign.Name,
		"start_time", campaign.StartTime.Unix(),
		"end_time", campaign.EndTime.Unix(),
		"created_by", campaign.CreatedBy,
	)
	return campaignID, nil
}

func (uc StructureUseCase) requireAdmin(ctx context.Context, caller string) error {
	isAdmin, err := uc.Admins.IsAdmin(ctx, normalizeIdentity(caller))
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func (uc StructureUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc StructureUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	campaignID uint64,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newStructureEnvelope(eventID, eventType, campaignID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

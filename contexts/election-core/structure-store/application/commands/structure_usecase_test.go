package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chainvotes/contexts/election-core/structure-store/adapters/memory"
	"chainvotes/contexts/election-core/structure-store/application/commands"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
)

type adminSet map[string]bool

func (a adminSet) IsAdmin(_ context.Context, identity string) (bool, error) {
	return a[strings.ToLower(strings.TrimSpace(identity))], nil
}

func newUseCase(store *memory.Store) commands.StructureUseCase {
	return commands.StructureUseCase{
		Structure: store,
		Admins:    adminSet{"admin@example.com": true},
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
	}
}

func TestCreateCampaignRejectsInvalidWindow(t *testing.T) {
	store := memory.NewStore()
	useCase := newUseCase(store)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := useCase.CreateCampaign(context.Background(), commands.CreateCampaignCommand{
		Caller:    "admin@example.com",
		Name:      "Board Election",
		StartTime: start,
		EndTime:   start,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTimeWindow) {
		t.Fatalf("expected invalid time window, got %v", err)
	}

	_, err = useCase.CreateCampaign(context.Background(), commands.CreateCampaignCommand{
		Caller:    "admin@example.com",
		Name:      "Board Election",
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrInvalidTimeWindow) {
		t.Fatalf("expected invalid time window for reversed bounds, got %v", err)
	}

	count, err := store.CampaignCount(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected campaign must not be stored, got %d", count)
	}
}

func TestNonAdminCannotMutateStructure(t *testing.T) {
	store := memory.NewStore()
	useCase := newUseCase(store)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaignID, err := useCase.CreateCampaign(ctx, commands.CreateCampaignCommand{
		Caller:    "admin@example.com",
		Name:      "Board Election",
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	if _, err := useCase.CreateCampaign(ctx, commands.CreateCampaignCommand{
		Caller:    "voter@example.com",
		Name:      "Rogue Election",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized create, got %v", err)
	}
	if _, err := useCase.AddPosition(ctx, commands.AddPositionCommand{
		Caller:     "voter@example.com",
		CampaignID: campaignID,
		Name:       "Chair",
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized add position, got %v", err)
	}
	if err := useCase.ChangeCampaignStatus(ctx, commands.ChangeStatusCommand{
		Caller:     "voter@example.com",
		CampaignID: campaignID,
		IsActive:   false,
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized status change, got %v", err)
	}

	campaign, err := store.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if !campaign.IsActive || len(campaign.PositionIDs) != 0 {
		t.Fatalf("unauthorized calls must leave state untouched: %+v", campaign)
	}
}

func TestBlankNamesAreRejected(t *testing.T) {
	store := memory.NewStore()
	useCase := newUseCase(store)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := useCase.CreateCampaign(ctx, commands.CreateCampaignCommand{
		Caller:    "admin@example.com",
		Name:      "   ",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}); !errors.Is(err, domainerrors.ErrInvalidStructureInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
}

func TestStatusChangeTogglesAndEmits(t *testing.T) {
	store := memory.NewStore()
	useCase := newUseCase(store)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	campaignID, err := useCase.CreateCampaign(ctx, commands.CreateCampaignCommand{
		Caller:    "admin@example.com",
		Name:      "Board Election",
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	if err := useCase.ChangeCampaignStatus(ctx, commands.ChangeStatusCommand{
		Caller:     "admin@example.com",
		CampaignID: campaignID,
		IsActive:   false,
	}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	campaign, err := store.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.IsActive {
		t.Fatalf("expected campaign deactivated")
	}

	if err := useCase.ChangeCampaignStatus(ctx, commands.ChangeStatusCommand{
		Caller:     "admin@example.com",
		CampaignID: 42,
		IsActive:   true,
	}); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	types := map[string]int{}
	for _, row := range pending {
		types[row.EventType]++
	}
	if types["campaign.created"] != 1 || types["campaign.status_changed"] != 1 {
		t.Fatalf("unexpected outbox contents: %v", types)
	}
}

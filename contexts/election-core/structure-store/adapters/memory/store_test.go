package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
)

func TestCampaignIDsAreSequentialFromOne(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		got, err := store.CreateCampaign(ctx, entities.Campaign{Name: "campaign"})
		if err != nil {
			t.Fatalf("create campaign failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected campaign id %d, got %d", want, got)
		}
	}

	count, err := store.CampaignCount(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 campaigns, got %d", count)
	}
	id, err := store.CampaignIDAt(ctx, 1)
	if err != nil {
		t.Fatalf("id at index failed: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected id 2 at index 1, got %d", id)
	}
}

func TestChildIDsAreScopedToParent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, _ := store.CreateCampaign(ctx, entities.Campaign{Name: "first"})
	second, _ := store.CreateCampaign(ctx, entities.Campaign{Name: "second"})

	// Positions restart at 1 in each campaign.
	for want := uint64(1); want <= 2; want++ {
		got, err := store.AddPosition(ctx, entities.Position{CampaignID: first, Name: "seat"})
		if err != nil {
			t.Fatalf("add position failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected position id %d, got %d", want, got)
		}
	}
	got, err := store.AddPosition(ctx, entities.Position{CampaignID: second, Name: "seat"})
	if err != nil {
		t.Fatalf("add position in second campaign failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected position id 1 in second campaign, got %d", got)
	}

	candidateID, err := store.AddCandidate(ctx, entities.Candidate{CampaignID: first, PositionID: 1, Name: "cand"})
	if err != nil {
		t.Fatalf("add candidate failed: %v", err)
	}
	if candidateID != 1 {
		t.Fatalf("expected candidate id 1, got %d", candidateID)
	}

	campaign, err := store.GetCampaign(ctx, first)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if len(campaign.PositionIDs) != 2 {
		t.Fatalf("expected 2 position ids, got %v", campaign.PositionIDs)
	}
}

func TestLookupsReportTheMostSpecificMissingLevel(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	campaignID, _ := store.CreateCampaign(ctx, entities.Campaign{Name: "campaign"})
	positionID, _ := store.AddPosition(ctx, entities.Position{CampaignID: campaignID, Name: "seat"})

	if _, err := store.GetCampaign(ctx, 99); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
	if _, err := store.GetPosition(ctx, campaignID, 99); !errors.Is(err, domainerrors.ErrPositionNotFound) {
		t.Fatalf("expected position not found, got %v", err)
	}
	if _, err := store.GetPosition(ctx, 99, 1); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found through position lookup, got %v", err)
	}
	if _, err := store.GetCandidate(ctx, campaignID, positionID, 99); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected candidate not found, got %v", err)
	}
	if _, err := store.GetCandidate(ctx, campaignID, 99, 1); !errors.Is(err, domainerrors.ErrPositionNotFound) {
		t.Fatalf("expected position not found through candidate lookup, got %v", err)
	}
}

func TestApplyVoteTallyIncrementsBothCounters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	campaignID, _ := store.CreateCampaign(ctx, entities.Campaign{
		Name:      "campaign",
		StartTime: time.Now().UTC(),
		EndTime:   time.Now().UTC().Add(time.Hour),
	})
	positionID, _ := store.AddPosition(ctx, entities.Position{CampaignID: campaignID, Name: "seat"})
	candidateID, _ := store.AddCandidate(ctx, entities.Candidate{CampaignID: campaignID, PositionID: positionID, Name: "cand"})

	if err := store.ApplyVoteTally(ctx, campaignID, positionID, candidateID); err != nil {
		t.Fatalf("apply tally failed: %v", err)
	}
	if err := store.ApplyVoteTally(ctx, campaignID, positionID, candidateID); err != nil {
		t.Fatalf("second apply tally failed: %v", err)
	}

	candidate, err := store.GetCandidate(ctx, campaignID, positionID, candidateID)
	if err != nil {
		t.Fatalf("get candidate failed: %v", err)
	}
	if candidate.VoteCount != 2 {
		t.Fatalf("expected vote count 2, got %d", candidate.VoteCount)
	}
	campaign, err := store.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatalf("get campaign failed: %v", err)
	}
	if campaign.VoterCount != 2 {
		t.Fatalf("expected voter count 2, got %d", campaign.VoterCount)
	}
}

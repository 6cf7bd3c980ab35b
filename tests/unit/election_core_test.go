package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	accesserrors "chainvotes/contexts/election-core/access-registry/domain/errors"
	electionfacade "chainvotes/contexts/election-core/election-facade"
	structureerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	ledgererrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

const (
	owner = "owner@example.com"
	admin = "admin@example.com"
)

var electionStart = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// newElection builds a campaign with two positions and seeded candidates,
// with the clock parked one hour before the voting window opens.
func newElection(t *testing.T) (electionfacade.Module, *manualClock, uint64) {
	t.Helper()

	clock := &manualClock{now: electionStart.Add(-time.Hour)}
	module := electionfacade.NewInMemoryModule(owner, clock, nil)
	ctx := context.Background()

	if err := module.Service.AddAdmin(ctx, owner, admin); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}

	campaignID, err := module.Service.CreateCampaign(ctx, admin,
		"Board Election 2026", "annual board vote",
		electionStart, electionStart.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	for _, position := range []string{"Chair", "Treasurer"} {
		positionID, err := module.Service.AddPosition(ctx, admin, campaignID, position, "")
		if err != nil {
			t.Fatalf("add position failed: %v", err)
		}
		for _, candidate := range []string{"Alice", "Bob"} {
			if _, err := module.Service.AddCandidate(ctx, admin, campaignID, positionID, candidate, ""); err != nil {
				t.Fatalf("add candidate failed: %v", err)
			}
		}
	}

	return module, clock, campaignID
}

func TestVotingLifecycle(t *testing.T) {
	module, clock, campaignID := newElection(t)
	ctx := context.Background()

	// Before the window opens nobody can vote.
	_, err := module.Service.CastVote(ctx, "voter1@example.com", campaignID, 1, 1)
	if !errors.Is(err, ledgererrors.ErrCampaignNotStarted) {
		t.Fatalf("expected campaign not started, got %v", err)
	}

	clock.Advance(2 * time.Hour)

	ballot, err := module.Service.CastVote(ctx, "voter1@example.com", campaignID, 1, 1)
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if ballot.CampaignID != campaignID || ballot.CandidateID != 1 {
		t.Fatalf("unexpected ballot: %+v", ballot)
	}
	voted, err := module.Service.HasVoted(ctx, campaignID, "VOTER1@example.com")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if !voted {
		t.Fatalf("expected voter1 marked as voted")
	}

	// One ballot per campaign, even against a different position.
	_, err = module.Service.CastVote(ctx, "voter1@example.com", campaignID, 2, 2)
	if !errors.Is(err, ledgererrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}

	if _, err := module.Service.CastVote(ctx, "voter2@example.com", campaignID, 1, 2); err != nil {
		t.Fatalf("second voter failed: %v", err)
	}

	results, err := module.Service.GetCampaignResults(ctx, campaignID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.VoterCount != 2 || results.BallotCount != 2 {
		t.Fatalf("expected two recorded voters, got %+v", results)
	}
	if len(results.Positions) != 2 {
		t.Fatalf("expected two positions, got %d", len(results.Positions))
	}
	chair := results.Positions[0]
	if chair.Candidates[0].VoteCount != 1 || chair.Candidates[1].VoteCount != 1 {
		t.Fatalf("unexpected chair tallies: %+v", chair.Candidates)
	}

	// Past the window the campaign stops accepting ballots.
	clock.Advance(72 * time.Hour)
	_, err = module.Service.CastVote(ctx, "voter3@example.com", campaignID, 1, 1)
	if !errors.Is(err, ledgererrors.ErrCampaignEnded) {
		t.Fatalf("expected campaign ended, got %v", err)
	}
}

func TestDeactivatedCampaignRejectsBallots(t *testing.T) {
	module, clock, campaignID := newElection(t)
	ctx := context.Background()
	clock.Advance(2 * time.Hour)

	if err := module.Service.SetCampaignStatus(ctx, admin, campaignID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	_, err := module.Service.CastVote(ctx, "voter1@example.com", campaignID, 1, 1)
	if !errors.Is(err, ledgererrors.ErrCampaignInactive) {
		t.Fatalf("expected campaign inactive, got %v", err)
	}

	// Reactivation restores voting inside the window.
	if err := module.Service.SetCampaignStatus(ctx, admin, campaignID, true); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if _, err := module.Service.CastVote(ctx, "voter1@example.com", campaignID, 1, 1); err != nil {
		t.Fatalf("cast after reactivation failed: %v", err)
	}
}

func TestAuthorizationBoundaries(t *testing.T) {
	module, clock, campaignID := newElection(t)
	ctx := context.Background()
	clock.Advance(2 * time.Hour)

	if err := module.Service.AddAdmin(ctx, admin, "intruder@example.com"); !errors.Is(err, accesserrors.ErrUnauthorized) {
		t.Fatalf("expected owner-only add admin, got %v", err)
	}
	if _, err := module.Service.CreateCampaign(ctx, "voter@example.com",
		"Rogue", "", electionStart, electionStart.Add(time.Hour)); !errors.Is(err, structureerrors.ErrUnauthorized) {
		t.Fatalf("expected admin-only create, got %v", err)
	}
	if _, err := module.Service.AddCandidate(ctx, "voter@example.com", campaignID, 1, "Eve", ""); !errors.Is(err, structureerrors.ErrUnauthorized) {
		t.Fatalf("expected admin-only add candidate, got %v", err)
	}

	count, err := module.Service.GetCampaignCount(ctx)
	if err != nil {
		t.Fatalf("campaign count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("unauthorized calls must not add campaigns, got %d", count)
	}
}

func TestVoteAgainstMissingStructure(t *testing.T) {
	module, clock, campaignID := newElection(t)
	ctx := context.Background()
	clock.Advance(2 * time.Hour)

	cases := []struct {
		name        string
		campaignID  uint64
		positionID  uint64
		candidateID uint64
		want        error
	}{
		{"unknown campaign", 99, 1, 1, ledgererrors.ErrCampaignNotFound},
		{"unknown position", campaignID, 99, 1, ledgererrors.ErrPositionNotFound},
		{"unknown candidate", campaignID, 1, 99, ledgererrors.ErrCandidateNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := module.Service.CastVote(ctx, "voter@example.com", tc.campaignID, tc.positionID, tc.candidateID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCampaignEnumeration(t *testing.T) {
	module, _, first := newElection(t)
	ctx := context.Background()

	second, err := module.Service.CreateCampaign(ctx, admin,
		"Special Election", "", electionStart, electionStart.Add(time.Hour))
	if err != nil {
		t.Fatalf("create second campaign failed: %v", err)
	}
	if second != first+1 {
		t.Fatalf("expected sequential campaign ids, got %d then %d", first, second)
	}

	id, err := module.Service.CampaignIDAt(ctx, 1)
	if err != nil {
		t.Fatalf("campaign id at index failed: %v", err)
	}
	if id != second {
		t.Fatalf("expected id %d at index 1, got %d", second, id)
	}

	campaigns, err := module.Service.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns failed: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("expected two campaigns, got %d", len(campaigns))
	}
}

func TestVoteEventsFlowThroughOutbox(t *testing.T) {
	module, clock, campaignID := newElection(t)
	ctx := context.Background()
	clock.Advance(2 * time.Hour)

	if _, err := module.Service.CastVote(ctx, "voter1@example.com", campaignID, 1, 1); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	pending, err := module.Ledger.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list ledger outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "vote.cast" {
		t.Fatalf("expected one vote.cast row, got %+v", pending)
	}

	structurePending, err := module.Structure.Store.ListPendingOutbox(ctx, 20)
	if err != nil {
		t.Fatalf("list structure outbox failed: %v", err)
	}
	types := map[string]int{}
	for _, row := range structurePending {
		types[row.EventType]++
	}
	if types["campaign.created"] != 1 || types["position.created"] != 2 || types["candidate.created"] != 4 {
		t.Fatalf("unexpected structure outbox contents: %v", types)
	}
}

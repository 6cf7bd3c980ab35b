package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainvotes/contexts/election-core/vote-ledger/adapters/memory"
	"chainvotes/contexts/election-core/vote-ledger/application/commands"
	domainerrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	"chainvotes/contexts/election-core/vote-ledger/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type stubStructure struct {
	target ports.VoteTarget
	err    error
}

func (s stubStructure) GetVoteTarget(
	_ context.Context,
	_ uint64,
	_ uint64,
	_ uint64,
) (ports.VoteTarget, error) {
	return s.target, s.err
}

var (
	windowStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.Add(24 * time.Hour)
)

func newUseCase(store *memory.Store, structure ports.StructureReader, now time.Time) commands.VoteUseCase {
	return commands.VoteUseCase{
		Ballots:   store,
		Structure: structure,
		Outbox:    store,
		Clock:     fixedClock{now: now},
		IDGen:     store,
	}
}

func openTarget() ports.VoteTarget {
	return ports.VoteTarget{
		CampaignID:  1,
		PositionID:  1,
		CandidateID: 1,
		IsActive:    true,
		StartTime:   windowStart,
		EndTime:     windowEnd,
	}
}

func TestCastVoteRecordsBallotAndEvent(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := newUseCase(store, stubStructure{target: openTarget()}, windowStart.Add(time.Hour))

	result, err := useCase.CastVote(context.Background(), commands.CastVoteCommand{
		Voter:       "  Voter@Example.com ",
		CampaignID:  1,
		PositionID:  1,
		CandidateID: 1,
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if result.Ballot.Voter != "voter@example.com" {
		t.Fatalf("expected normalized voter, got %q", result.Ballot.Voter)
	}

	voted, err := store.HasVoted(context.Background(), 1, "VOTER@example.com")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if !voted {
		t.Fatalf("expected participation after cast")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "vote.cast" {
		t.Fatalf("expected one vote.cast event, got %+v", pending)
	}
}

func TestCastVoteRejectsSecondBallotInCampaign(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := newUseCase(store, stubStructure{target: openTarget()}, windowStart.Add(time.Hour))
	ctx := context.Background()

	if _, err := useCase.CastVote(ctx, commands.CastVoteCommand{
		Voter: "voter@example.com", CampaignID: 1, PositionID: 1, CandidateID: 1,
	}); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	// A different case spelling of the same identity is still the same voter.
	_, err := useCase.CastVote(ctx, commands.CastVoteCommand{
		Voter: "VOTER@example.com", CampaignID: 1, PositionID: 1, CandidateID: 1,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected already voted, got %v", err)
	}

	count, err := store.CountBallotsByCampaign(ctx, 1)
	if err != nil {
		t.Fatalf("count ballots failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single ballot, got %d", count)
	}
}

func TestCastVoteWindowAndStateChecks(t *testing.T) {
	cases := []struct {
		name   string
		target ports.VoteTarget
		now    time.Time
		want   error
	}{
		{
			name: "inactive campaign",
			target: func() ports.VoteTarget {
				target := openTarget()
				target.IsActive = false
				return target
			}(),
			now:  windowStart.Add(time.Hour),
			want: domainerrors.ErrCampaignInactive,
		},
		{
			name:   "before window",
			target: openTarget(),
			now:    windowStart.Add(-time.Minute),
			want:   domainerrors.ErrCampaignNotStarted,
		},
		{
			name:   "after window",
			target: openTarget(),
			now:    windowEnd.Add(time.Minute),
			want:   domainerrors.ErrCampaignEnded,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore(nil)
			useCase := newUseCase(store, stubStructure{target: tc.target}, tc.now)

			_, err := useCase.CastVote(context.Background(), commands.CastVoteCommand{
				Voter: "voter@example.com", CampaignID: 1, PositionID: 1, CandidateID: 1,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			count, err := store.CountBallotsByCampaign(context.Background(), 1)
			if err != nil {
				t.Fatalf("count ballots failed: %v", err)
			}
			if count != 0 {
				t.Fatalf("rejected ballot must not be stored")
			}
		})
	}
}

func TestCastVoteResolvesTargetBeforeWindow(t *testing.T) {
	// An unknown candidate reports not-found even when the campaign window
	// would also reject the ballot.
	store := memory.NewStore(nil)
	useCase := newUseCase(
		store,
		stubStructure{err: domainerrors.ErrCandidateNotFound},
		windowEnd.Add(time.Hour),
	)

	_, err := useCase.CastVote(context.Background(), commands.CastVoteCommand{
		Voter: "voter@example.com", CampaignID: 1, PositionID: 1, CandidateID: 9,
	})
	if !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected candidate not found, got %v", err)
	}
}

func TestCastVoteRejectsBlankVoter(t *testing.T) {
	store := memory.NewStore(nil)
	useCase := newUseCase(store, stubStructure{target: openTarget()}, windowStart.Add(time.Hour))

	_, err := useCase.CastVote(context.Background(), commands.CastVoteCommand{
		Voter: "   ", CampaignID: 1, PositionID: 1, CandidateID: 1,
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoterIdentity) {
		t.Fatalf("expected invalid voter identity, got %v", err)
	}
}

package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "chainvotes/contexts/election-core/vote-ledger/application"
	"chainvotes/contexts/election-core/vote-ledger/domain/entities"
	domainerrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	"chainvotes/contexts/election-core/vote-ledger/ports"

	"github.com/google/uuid"
)

// CastVoteCommand is the write-model input for casting a ballot.
type CastVoteCommand struct {
	Voter       string
	CampaignID  uint64
	PositionID  uint64
	CandidateID uint64
}

// CastVoteResult returns the recorded ballot.
type CastVoteResult struct {
	Ballot entities.Ballot
}

// VoteUseCase admits ballots. Checks run in a fixed order: target existence,
// campaign activation, voting window, then the one-vote-per-campaign rule.
// The repository's AppendBallot is the atomic effect, so a losing racer on
// the same (campaign, voter) pair still surfaces ErrAlreadyVoted.
type VoteUseCase struct {
	Ballots   ports.BallotRepository
	Structure ports.StructureReader
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := normalizeIdentity(cmd.Voter)
	if voter == "" {
		logger.Warn("ballot rejected for blank voter",
			"event", "ledger_cast_validation_failed",
			"module", "election-core/vote-ledger",
			"layer", "application",
			"campaign_id", cmd.CampaignID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoterIdentity
	}

	target, err := uc.Structure.GetVoteTarget(ctx, cmd.CampaignID, cmd.PositionID, cmd.CandidateID)
	if err != nil {
		logger.Warn("ballot target resolution failed",
			"event", "ledger_cast_target_failed",
			"module", "election-core/vote-ledger",
			"layer", "application",
			"voter", voter,
			"campaign_id", cmd.CampaignID,
			"position_id", cmd.PositionID,
			"candidate_id", cmd.CandidateID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	now := uc.now()
	if err := admitWindow(target, now); err != nil {
		logger.Warn("ballot rejected by campaign state",
			"event", "ledger_cast_window_rejected",
			"module", "election-core/vote-ledger",
			"layer", "application",
			"voter", voter,
			"campaign_id", cmd.CampaignID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	if voted, err := uc.Ballots.HasVoted(ctx, cmd.CampaignID, voter); err != nil {
		return CastVoteResult{}, err
	} else if voted {
		logger.Warn("ballot rejected for repeat vote",
			"event", "ledger_cast_repeat_rejected",
			"module", "election-core/vote-ledger",
			"layer", "application",
			"voter", voter,
			"campaign_id", cmd.CampaignID,
		)
		return CastVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	ballotID, err := uc.newBallotID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	ballot := entities.Ballot{
		BallotID:    ballotID,
		CampaignID:  cmd.CampaignID,
		PositionID:  cmd.PositionID,
		CandidateID: cmd.CandidateID,
		Voter:       voter,
		CastAt:      now,
	}
	if err := uc.Ballots.AppendBallot(ctx, ballot); err != nil {
		return CastVoteResult{}, err
	}

	if err := uc.appendBallotEvent(ctx, ballot); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("ballot recorded",
		"event", "ledger_ballot_recorded",
		"module", "election-core/vote-ledger",
		"layer", "application",
		"ballot_id", ballot.BallotID,
		"voter", voter,
		"campaign_id", cmd.CampaignID,
		"position_id", cmd.PositionID,
		"candidate_id", cmd.CandidateID,
	)
	return CastVoteResult{Ballot: ballot}, nil
}

// admitWindow checks the activation flag before the time window, so a
// deactivated campaign reports inactive even outside its window.
func admitWindow(target ports.VoteTarget, now time.Time) error {
	if !target.IsActive {
		return domainerrors.ErrCampaignInactive
	}
	if now.Before(target.StartTime) {
		return domainerrors.ErrCampaignNotStarted
	}
	if now.After(target.EndTime) {
		return domainerrors.ErrCampaignEnded
	}
	return nil
}

func (uc VoteUseCase) appendBallotEvent(ctx context.Context, ballot entities.Ballot) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.newBallotID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, "vote.cast", ballot.CampaignID, ballot.CastAt, map[string]any{
		"ballot_id":    ballot.BallotID,
		"campaign_id":  ballot.CampaignID,
		"position_id":  ballot.PositionID,
		"candidate_id": ballot.CandidateID,
		"voter":        ballot.Voter,
		"cast_at":      ballot.CastAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc VoteUseCase) newBallotID(ctx context.Context) (string, error) {
	if uc.IDGen != nil {
		return uc.IDGen.NewID(ctx)
	}
	return uuid.NewString(), nil
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

package httpadapter

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"chainvotes/contexts/election-core/vote-ledger/application/commands"
	"chainvotes/contexts/election-core/vote-ledger/application/queries"
	httptransport "chainvotes/contexts/election-core/vote-ledger/transport/http"
)

type Handler struct {
	Commands commands.VoteUseCase
	Queries  queries.LedgerQueries
	Logger   *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	voter string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Commands.CastVote(ctx, commands.CastVoteCommand{
		Voter:       voter,
		CampaignID:  req.CampaignID,
		PositionID:  req.PositionID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	ballot := result.Ballot
	return httptransport.CastVoteResponse{
		BallotID:    ballot.BallotID,
		CampaignID:  ballot.CampaignID,
		PositionID:  ballot.PositionID,
		CandidateID: ballot.CandidateID,
		Voter:       ballot.Voter,
		CastAt:      ballot.CastAt.Unix(),
	}, nil
}

func (h Handler) HasVotedHandler(
	ctx context.Context,
	campaignID uint64,
	voter string,
) (httptransport.HasVotedResponse, error) {
	record, found, err := h.Queries.GetParticipation(ctx, campaignID, voter)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	resp := httptransport.HasVotedResponse{
		CampaignID: campaignID,
		Voter:      strings.ToLower(strings.TrimSpace(voter)),
		HasVoted:   found,
	}
	if found {
		resp.VotedAt = record.VotedAt.Unix()
	}
	return resp, nil
}

func (h Handler) ListBallotsHandler(ctx context.Context, campaignID uint64) (httptransport.BallotListResponse, error) {
	ballots, err := h.Queries.ListBallots(ctx, campaignID)
	if err != nil {
		return httptransport.BallotListResponse{}, err
	}
	items := make([]httptransport.BallotItem, 0, len(ballots))
	for _, ballot := range ballots {
		items = append(items, httptransport.BallotItem{
			BallotID:    ballot.BallotID,
			PositionID:  ballot.PositionID,
			CandidateID: ballot.CandidateID,
			Voter:       ballot.Voter,
			CastAt:      ballot.CastAt.Unix(),
		})
	}
	return httptransport.BallotListResponse{
		CampaignID: campaignID,
		Count:      len(items),
		Ballots:    items,
	}, nil
}

func (h Handler) PositionTallyHandler(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
) (httptransport.PositionTallyResponse, error) {
	tally, err := h.Queries.TallyPosition(ctx, campaignID, positionID)
	if err != nil {
		return httptransport.PositionTallyResponse{}, err
	}
	candidates := make([]httptransport.CandidateTally, 0, len(tally.ByCandidate))
	for candidateID, votes := range tally.ByCandidate {
		candidates = append(candidates, httptransport.CandidateTally{
			CandidateID: candidateID,
			Votes:       votes,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CandidateID < candidates[j].CandidateID
	})
	return httptransport.PositionTallyResponse{
		CampaignID:  campaignID,
		PositionID:  positionID,
		BallotCount: tally.BallotCount,
		Candidates:  candidates,
	}, nil
}

package application

import (
	"context"
	"log/slog"
	"time"

	accessapplication "chainvotes/contexts/election-core/access-registry/application"
	accessports "chainvotes/contexts/election-core/access-registry/ports"
	structurecommands "chainvotes/contexts/election-core/structure-store/application/commands"
	structurequeries "chainvotes/contexts/election-core/structure-store/application/queries"
	structureentities "chainvotes/contexts/election-core/structure-store/domain/entities"
	ledgercommands "chainvotes/contexts/election-core/vote-ledger/application/commands"
	ledgerqueries "chainvotes/contexts/election-core/vote-ledger/application/queries"
	ledgerentities "chainvotes/contexts/election-core/vote-ledger/domain/entities"
)

// Service fans the public election surface out to the three owning modules.
type Service struct {
	Admins    accessapplication.Service
	Structure structurecommands.StructureUseCase
	Queries   structurequeries.StructureQueries
	Ledger    ledgercommands.VoteUseCase
	Ballots   ledgerqueries.LedgerQueries
	Logger    *slog.Logger
}

func (s Service) AddAdmin(ctx context.Context, caller string, identity string) error {
	return s.Admins.AddAdmin(ctx, caller, identity)
}

func (s Service) RemoveAdmin(ctx context.Context, caller string, identity string) error {
	return s.Admins.RemoveAdmin(ctx, caller, identity)
}

func (s Service) IsAdmin(ctx context.Context, identity string) (bool, error) {
	return s.Admins.IsAdmin(ctx, identity)
}

func (s Service) Owner(ctx context.Context) (string, error) {
	return s.Admins.Owner(ctx)
}

func (s Service) ListAdmins(ctx context.Context) ([]accessports.Admin, error) {
	return s.Admins.ListAdmins(ctx)
}

func (s Service) CreateCampaign(
	ctx context.Context,
	caller string,
	name string,
	description string,
	startTime time.Time,
	endTime time.Time,
) (uint64, error) {
	return s.Structure.CreateCampaign(ctx, structurecommands.CreateCampaignCommand{
		Caller:      caller,
		Name:        name,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
	})
}

func (s Service) SetCampaignStatus(ctx context.Context, caller string, campaignID uint64, isActive bool) error {
	return s.Structure.ChangeCampaignStatus(ctx, structurecommands.ChangeStatusCommand{
		Caller:     caller,
		CampaignID: campaignID,
		IsActive:   isActive,
	})
}

func (s Service) AddPosition(
	ctx context.Context,
	caller string,
	campaignID uint64,
	name string,
	description string,
) (uint64, error) {
	return s.Structure.AddPosition(ctx, structurecommands.AddPositionCommand{
		Caller:      caller,
		CampaignID:  campaignID,
		Name:        name,
		Description: description,
	})
}

func (s Service) AddCandidate(
	ctx context.Context,
	caller string,
	campaignID uint64,
	positionID uint64,
	name string,
	description string,
) (uint64, error) {
	return s.Structure.AddCandidate(ctx, structurecommands.AddCandidateCommand{
		Caller:      caller,
		CampaignID:  campaignID,
		PositionID:  positionID,
		Name:        name,
		Description: description,
	})
}

func (s Service) CastVote(
	ctx context.Context,
	voter string,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (ledgerentities.Ballot, error) {
	result, err := s.Ledger.CastVote(ctx, ledgercommands.CastVoteCommand{
		Voter:       voter,
		CampaignID:  campaignID,
		PositionID:  positionID,
		CandidateID: candidateID,
	})
	if err != nil {
		return ledgerentities.Ballot{}, err
	}
	return result.Ballot, nil
}

func (s Service) HasVoted(ctx context.Context, campaignID uint64, voter string) (bool, error) {
	return s.Ballots.HasVoted(ctx, campaignID, voter)
}

func (s Service) GetCampaignCount(ctx context.Context) (int, error) {
	return s.Queries.GetCampaignCount(ctx)
}

func (s Service) GetCampaignDetails(ctx context.Context, campaignID uint64) (structureentities.Campaign, error) {
	return s.Queries.GetCampaignDetails(ctx, campaignID)
}

func (s Service) GetPositionDetails(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
) (structureentities.Position, error) {
	return s.Queries.GetPositionDetails(ctx, campaignID, positionID)
}

func (s Service) GetCandidateDetails(
	ctx context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (structureentities.Candidate, error) {
	return s.Queries.GetCandidateDetails(ctx, campaignID, positionID, candidateID)
}

func (s Service) CampaignIDAt(ctx context.Context, index int) (uint64, error) {
	return s.Queries.CampaignIDAt(ctx, index)
}

func (s Service) ListCampaigns(ctx context.Context) ([]structureentities.Campaign, error) {
	return s.Queries.ListCampaigns(ctx)
}

func (s Service) ListBallots(ctx context.Context, campaignID uint64) ([]ledgerentities.Ballot, error) {
	return s.Ballots.ListBallots(ctx, campaignID)
}

// CandidateResult is one candidate's standing in the campaign results view.
type CandidateResult struct {
	CandidateID uint64
	Name        string
	VoteCount   int
}

// PositionResult groups candidate standings under their position.
type PositionResult struct {
	PositionID uint64
	Name       string
	Candidates []CandidateResult
}

// CampaignResults is the turnout view served to results pages.
type CampaignResults struct {
	CampaignID  uint64
	Name        string
	IsActive    bool
	VoterCount  int
	BallotCount int
	Positions   []PositionResult
}

// GetCampaignResults walks the campaign's structure and pairs it with the
// ledger's ballot count. Candidate tallies come from the structure store,
// which the ledger updates once per accepted ballot.
func (s Service) GetCampaignResults(ctx context.Context, campaignID uint64) (CampaignResults, error) {
	logger := ResolveLogger(s.Logger)

	campaign, err := s.Queries.GetCampaignDetails(ctx, campaignID)
	if err != nil {
		return CampaignResults{}, err
	}
	ballotCount, err := s.Ballots.CountBallots(ctx, campaignID)
	if err != nil {
		return CampaignResults{}, err
	}

	results := CampaignResults{
		CampaignID:  campaign.CampaignID,
		Name:        campaign.Name,
		IsActive:    campaign.IsActive,
		VoterCount:  campaign.VoterCount,
		BallotCount: ballotCount,
		Positions:   make([]PositionResult, 0, len(campaign.PositionIDs)),
	}
	for _, positionID := range campaign.PositionIDs {
		position, err := s.Queries.GetPositionDetails(ctx, campaignID, positionID)
		if err != nil {
			return CampaignResults{}, err
		}
		positionResult := PositionResult{
			PositionID: position.PositionID,
			Name:       position.Name,
			Candidates: make([]CandidateResult, 0, len(position.CandidateIDs)),
		}
		for _, candidateID := range position.CandidateIDs {
			candidate, err := s.Queries.GetCandidateDetails(ctx, campaignID, positionID, candidateID)
			if err != nil {
				return CampaignResults{}, err
			}
			positionResult.Candidates = append(positionResult.Candidates, CandidateResult{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				VoteCount:   candidate.VoteCount,
			})
		}
		results.Positions = append(results.Positions, positionResult)
	}

	logger.Debug("campaign results assembled",
		"event", "facade_campaign_results_assembled",
		"module", "election-core/election-facade",
		"layer", "application",
		"campaign_id", campaignID,
		"position_count", len(results.Positions),
		"ballot_count", ballotCount,
	)
	return results, nil
}

package errors

import "errors"

var (
	// ErrInvalidVoterIdentity signals a blank voter identity.
	ErrInvalidVoterIdentity = errors.New("voter identity is invalid")

	// ErrCampaignNotFound signals the ballot targets an unknown campaign.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrPositionNotFound signals the position does not belong to the campaign.
	ErrPositionNotFound = errors.New("position not found")

	// ErrCandidateNotFound signals the candidate does not belong to the position.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrCampaignInactive signals the campaign is deactivated.
	ErrCampaignInactive = errors.New("campaign is not active")

	// ErrCampaignNotStarted signals the voting window has not opened yet.
	ErrCampaignNotStarted = errors.New("campaign voting has not started")

	// ErrCampaignEnded signals the voting window has closed.
	ErrCampaignEnded = errors.New("campaign voting has ended")

	// ErrAlreadyVoted signals the voter already holds a ballot in the campaign.
	ErrAlreadyVoted = errors.New("voter has already voted in this campaign")

	// ErrOutboxConflict signals an outbox id was reused with a different payload.
	ErrOutboxConflict = errors.New("outbox message conflicts with an existing record")
)

package errors

import "errors"

var (
	ErrUnauthorized          = errors.New("caller is not an admin")
	ErrInvalidStructureInput = errors.New("invalid structure input")
	ErrInvalidTimeWindow     = errors.New("campaign end time must be after start time")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrPositionNotFound      = errors.New("position not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrOutboxConflict        = errors.New("outbox payload conflict")
)

package errors

import "errors"

var (
	ErrInvalidIdentity   = errors.New("identity must not be blank")
	ErrUnauthorized      = errors.New("caller is not the owner")
	ErrCannotRemoveOwner = errors.New("cannot remove owner as admin")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrOutboxConflict    = errors.New("outbox payload conflict")
)

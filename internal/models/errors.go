package models

import "errors"

// Ledger error taxonomy. Every precondition violation rejects the whole
// call; no partial effects persist.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidDeposit    = errors.New("deposit must be a positive amount")
	ErrDuplicateGame     = errors.New("game already exists")
	ErrGameNotFound      = errors.New("game not found")
	ErrAlreadyResolved   = errors.New("game already resolved")
	ErrUnauthorized      = errors.New("caller is not the resolver")
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
)

package errors

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidAccount      = errors.New("account address is required")
	ErrInvalidRecipient    = errors.New("transfer recipient is required")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrLedgerPaused        = errors.New("ledger is paused")
	ErrNotOwner            = errors.New("operation restricted to the ledger owner")
	ErrAccountNotFound     = errors.New("account not found")
	ErrConflict            = errors.New("ledger record conflict")
)

package errors

import "errors"

var (
	ErrInvalidInvestor          = errors.New("investor address must not be empty")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrBelowMinimumInstallment  = errors.New("installment amount below configured minimum")
	ErrBelowMinimumFrequency    = errors.New("installment frequency below configured minimum")
	ErrInsufficientFirstPayment = errors.New("first payment smaller than installment amount")
	ErrPlanNotFound             = errors.New("installment plan not found")
	ErrPlanNotActive            = errors.New("installment plan is not active")
	ErrInvalidTransition        = errors.New("invalid plan status transition")
	ErrAlreadyTerminal          = errors.New("plan already in a terminal status")
	ErrConflict                 = errors.New("conflicting plan state")
)

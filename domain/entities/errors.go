package entities

import "errors"

var (
	ErrInvalidTicketSize    = errors.New("ticket must hold between 6 and 20 numbers")
	ErrInvalidTicketNumbers = errors.New("ticket numbers must be distinct integers between 1 and 60")
	ErrEmptyPortfolio       = errors.New("portfolio has no tickets")
	ErrAlreadyRunning       = errors.New("a run is already in progress")
	ErrNotRunning           = errors.New("no run in progress")
	ErrInvalidStopTier      = errors.New("stop tiers must be quadra (4), quina (5) or sena (6)")
	ErrInvalidTrialBudget   = errors.New("trial budget cannot be negative")
)

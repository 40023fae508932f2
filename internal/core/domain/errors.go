package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
)

// Onboarding and identifier errors.
var (
	ErrOnboardingFailed       = errors.New("onboarding failed")
	ErrInvalidRole            = errors.New("invalid role")
	ErrNoRoles                = errors.New("at least one role is required")
	ErrIdentifierCollision    = errors.New("identifier already issued")
	ErrInvalidIdentifier      = errors.New("invalid identifier")
	ErrTransactionConflict    = errors.New("transaction conflict")
	ErrDirectoryEntryNotFound = errors.New("directory entry not found")
)

// Ledger errors. ErrMirrorSyncFailed never reaches callers; it only tags log lines.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrLedgerExists        = errors.New("ledger already initialized")
	ErrMirrorSyncFailed    = errors.New("directory mirror sync failed")
)

// Marketplace errors.
var (
	ErrRoleNotHeld          = errors.New("role not held by user")
	ErrJobNotFound          = errors.New("job not found")
	ErrJobClosed            = errors.New("job is not open")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrProposalNotPending   = errors.New("proposal is not pending")
	ErrDuplicateProposal    = errors.New("proposal already submitted for this job")
	ErrSubmissionInProgress = errors.New("proposal submission already in progress")
)

package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found in tournament")
	ErrGroupNotFound      = errors.New("group not found in tournament")

	// Result submission.
	ErrValidationFailed = errors.New("result validation failed")
	ErrWinnerMismatch   = errors.New("declared winner does not match the computed winner")
	ErrUnknownPlayer    = errors.New("referenced player does not exist")

	// Phase transitions.
	ErrIncompleteResults        = errors.New("tournament has matches without a winner")
	ErrKnockoutAlreadyGenerated = errors.New("knockout rounds already exist")
	ErrNoRoundsGenerated        = errors.New("tournament has no bracket rounds")
	ErrBracketComplete          = errors.New("bracket is already decided, finish the tournament instead")
	ErrNotRoundRobin            = errors.New("operation requires a round-robin tournament")
	ErrInvalidStatusTransition  = errors.New("invalid tournament status transition")
	ErrTournamentNotStarted     = errors.New("tournament has not started")
	ErrTournamentFinished       = errors.New("tournament is already finished")

	// Setup.
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidConfig          = errors.New("invalid tournament configuration")
	ErrStructureLocked        = errors.New("participants are locked once the match structure exists")
	ErrTournamentNotDraft     = errors.New("only draft tournaments can be deleted")
	ErrDraftNotStartable      = errors.New("draft tournaments cannot be started")

	// Auth / authorization.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Conflicts.
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	ErrUploaderUnavailable = errors.New("file storage is not configured")
)

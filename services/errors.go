package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule failures
	ErrValidationFailed           = errors.New("validation failed")
	ErrInvalidEmail               = errors.New("email address is not valid")
	ErrPasswordTooShort           = errors.New("password must be at least 8 characters")
	ErrUsernameRequired           = errors.New("username is required")
	ErrTeamNameRequired           = errors.New("team name is required")
	ErrPlayerNameRequired         = errors.New("player name is required")
	ErrVenueNameRequired          = errors.New("venue name is required")
	ErrGroupLabelRequired         = errors.New("group label is required")
	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must not be before start date")
	ErrNegativeScore              = errors.New("scores must be non-negative integers")
	ErrSameTeam                   = errors.New("home and away team must differ")
	ErrTeamsNotInTournament       = errors.New("both teams must be assigned to the match tournament")
	ErrShootoutWinnerRequired     = errors.New("a shootout decision requires the winning team id")
	ErrShootoutScoreNotLevel      = errors.New("a shootout decision requires level scores after normal time")
	ErrShootoutWinnerNotPlaying   = errors.New("shootout winner must be one of the two teams")
	ErrInvalidDecisionMethod      = errors.New("decision method must be normal or penalties")
	ErrJerseyNumberTaken          = errors.New("jersey number already taken on this team roster")
	ErrEventTeamNotInMatch        = errors.New("event team must be one of the two match teams")
	ErrMatchNotUpcoming           = errors.New("match is not upcoming")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserUsernameConflict   = errors.New("username is already in use")
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTeamAlreadyAssigned    = errors.New("team is already assigned to this tournament")
	ErrRosterConflict         = errors.New("player is already on this roster")
	ErrResultAlreadyRecorded  = errors.New("match result already recorded; pass amend to correct it")
	ErrFixturesAlreadyExist   = errors.New("fixtures already generated for this group")

	// Infrastructure
	ErrStorageUnavailable = errors.New("object storage is not configured")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	// Entity-specific not-found errors
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrVenueNotFound       = errors.New("venue not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrStandingNotFound    = errors.New("standings row not found")
	ErrRosterEntryNotFound = errors.New("roster entry not found")
)

package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrPlayerNameRequired      = errors.New("player name is required")
	ErrInvalidJDLID            = errors.New("jdl_id must be \"JDL\" followed by exactly 6 digits")
	ErrInvalidClass            = errors.New("class must be one of A, B, C, D, E")
	ErrNegativeParticipation   = errors.New("participation_count must be zero or positive")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrReasonRequired          = errors.New("reason is required")
	ErrEntryNotOpen            = errors.New("tournament entry period is not open")
	ErrEntryClosed             = errors.New("tournament entry period has ended")
	ErrTournamentFull          = errors.New("tournament entry limit reached")
	ErrPlayerNotInTeam         = errors.New("player is not a member of the specified team")
	ErrAlreadyEntered          = errors.New("player is already entered in this tournament")
	ErrClassNotEligible        = errors.New("player class does not satisfy the entry restrictions")
	ErrSameClass               = errors.New("new class must differ from the current class")
	ErrAlreadyProcessed        = errors.New("request has already been processed")
	ErrInvalidTournamentDates  = errors.New("tournament end date must be after start date")
	ErrInvalidEntryDates       = errors.New("entry end date must be after entry start date and before start date")
	ErrInvalidTournamentStatus = errors.New("invalid tournament status provided")
	ErrInvalidTeamRole         = errors.New("team role must be one of owner, manager, member")
	ErrUserIDRequired          = errors.New("user id is required")
	ErrTeamIDRequired          = errors.New("team id is required")
	ErrSettingKeyRequired      = errors.New("setting key is required")

	// Ошибки конфликтов
	ErrJDLIDConflict          = errors.New("jdl_id is already in use")
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrPermissionConflict     = errors.New("user already has a permission for this team")
	ErrSettingKeyConflict     = errors.New("setting key already exists")

	// Ошибки авторизации и доступа
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")
	ErrManagerOnly         = errors.New("only the team manager can perform this action")
	ErrAdminOnly           = errors.New("only an administrator can perform this action")

	// Ошибки, специфичные для сущностей
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrClassChangeNotFound = errors.New("class change request not found")
	ErrPermissionNotFound  = errors.New("team permission not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSettingNotFound     = errors.New("system setting not found")
)

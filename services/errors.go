package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки, специфичные для сущностей
	ErrGamedayNotFound  = errors.New("gameday not found")
	ErrGameNotFound     = errors.New("game not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrTemplateNotFound = errors.New("no schedule template applies to this gameday")
	ErrStandingNotFound = errors.New("standing not found in this gameday")

	// ErrNotReady is not a failure: a prerequisite result has not been
	// entered yet. Callers re-trigger on the next relevant event.
	ErrNotReady = errors.New("prerequisite games are not finished yet")

	// ErrTie: winner/loser resolution hit equal totals and no tie-break
	// rule is defined. Surfaced, never silently defaulted.
	ErrTie = errors.New("game ended in a tie, winner cannot be resolved")

	// ErrResultIncomplete: a referenced game exists but its scores are
	// missing or its participants are themselves unresolved placeholders.
	ErrResultIncomplete = errors.New("game result is incomplete")

	// Ошибки бизнес-правил
	ErrGamedayNotDraft         = errors.New("gameday is not in draft status")
	ErrGamedayAlreadyPublished = errors.New("gameday is already published or completed")
	ErrInvalidStatusTransition = errors.New("invalid game status transition")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrStorageUnavailable      = errors.New("file storage is not configured")

	// ErrInsufficientRanking: a rule asks for a place the source standing
	// cannot provide. Logged and skipped inside bulk rule application.
	ErrInsufficientRanking = errors.New("standing has fewer ranked teams than the requested place")
)

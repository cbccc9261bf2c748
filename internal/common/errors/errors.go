package errors

import (
	"fmt"
	"time"
)

// ErrorCode is a stable, machine-readable error identifier surfaced to API
// callers and used by the HTTP layer to pick a status code.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeForbidden  ErrorCode = "FORBIDDEN"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	ErrCodeCompetitionNotFound ErrorCode = "COMPETITION_NOT_FOUND"
	ErrCodeParticipantNotFound ErrorCode = "PARTICIPANT_NOT_FOUND"
	ErrCodeEntryNotFound       ErrorCode = "ENTRY_NOT_FOUND"

	// Registration errors.
	ErrCodeRegistrationClosed ErrorCode = "REGISTRATION_CLOSED"
	ErrCodeCompetitionFull    ErrorCode = "COMPETITION_FULL"
	ErrCodeAlreadyRegistered  ErrorCode = "ALREADY_REGISTERED"

	// Entry submission errors.
	ErrCodeCompetitionNotActive ErrorCode = "COMPETITION_NOT_ACTIVE"
	ErrCodeSpeciesNotEligible   ErrorCode = "SPECIES_NOT_ELIGIBLE"
	ErrCodeSizeViolation        ErrorCode = "SIZE_VIOLATION"
	ErrCodeCatchLimitReached    ErrorCode = "CATCH_LIMIT_REACHED"
	ErrCodeMissingEvidence      ErrorCode = "MISSING_EVIDENCE"

	// Lifecycle invariant violations.
	ErrCodeInvalidTransition ErrorCode = "INVALID_PHASE_TRANSITION"
	ErrCodeAlreadyAllocated  ErrorCode = "AWARDS_ALREADY_ALLOCATED"

	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError    ErrorCode = "CACHE_ERROR"
	ErrCodeExternalAPI   ErrorCode = "EXTERNAL_API_ERROR"
)

// AppError is the typed application error carried through service and
// delivery layers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeCompetitionNotFound ||
		e.Code == ErrCodeParticipantNotFound ||
		e.Code == ErrCodeEntryNotFound
}

func (e *AppError) IsValidation() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeRegistrationClosed, ErrCodeCompetitionFull,
		ErrCodeAlreadyRegistered, ErrCodeCompetitionNotActive, ErrCodeSpeciesNotEligible,
		ErrCodeSizeViolation, ErrCodeCatchLimitReached, ErrCodeMissingEvidence:
		return true
	}
	return false
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodeExternalAPI
}

// WithDetail attaches structured context for logs and API responses.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewCompetitionNotFoundError(competitionID string) *AppError {
	return New(ErrCodeCompetitionNotFound, fmt.Sprintf("competition not found: %s", competitionID)).
		WithDetail("competition_id", competitionID)
}

func NewParticipantNotFoundError(participantID string) *AppError {
	return New(ErrCodeParticipantNotFound, fmt.Sprintf("participant not found: %s", participantID)).
		WithDetail("participant_id", participantID)
}

func NewEntryNotFoundError(entryID string) *AppError {
	return New(ErrCodeEntryNotFound, fmt.Sprintf("entry not found: %s", entryID)).
		WithDetail("entry_id", entryID)
}

func NewRegistrationClosedError(competitionID string) *AppError {
	return New(ErrCodeRegistrationClosed, "registration window is closed").
		WithDetail("competition_id", competitionID)
}

func NewCompetitionFullError(competitionID string, max int) *AppError {
	return New(ErrCodeCompetitionFull, "competition has reached its participant limit").
		WithDetail("competition_id", competitionID).
		WithDetail("max_participants", max)
}

func NewCompetitionNotActiveError(competitionID string) *AppError {
	return New(ErrCodeCompetitionNotActive, "competition is not accepting entries").
		WithDetail("competition_id", competitionID)
}

func NewInvalidTransitionError(competitionID, from, to string) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("cannot transition competition from %s to %s", from, to)).
		WithDetail("competition_id", competitionID).
		WithDetail("from", from).
		WithDetail("to", to)
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewExternalAPIError(service string, err error) *AppError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("external call failed: %s", service)).
		WithDetail("service", service)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}

package domain

import "errors"

var (
	ErrSessionNotFound     = errors.New("no active game for this chat")
	ErrInvalidPhase        = errors.New("operation not valid in the current phase")
	ErrDuplicateSubmission = errors.New("participant already submitted")
	ErrOutOfRangeSelection = errors.New("selection out of range")
	ErrNoAnswers           = errors.New("no participant answers to vote on")
	ErrGeneration          = errors.New("decoy generation failed")
	ErrEmptyCatalog        = errors.New("theme catalog is empty")
)

package ports

import (
	"context"

	"github.com/botornot/api/internal/core/domain"
)

// SubmitAnswerInput carries one participant answer into a session.
type SubmitAnswerInput struct {
	ChatID int64
	UserID int64
	Text   string
}

// CastVoteInput carries one vote. OptionIndex is 0-based against the
// session's voting options.
type CastVoteInput struct {
	ChatID      int64
	UserID      int64
	OptionIndex int
}

// VoteReceipt acknowledges a recorded vote. OptionNumber is the 1-based
// number shown to the voter.
type VoteReceipt struct {
	ChatID       int64 `json:"chat_id"`
	OptionNumber int   `json:"option_number"`
}

// GameService is the transport-facing contract of the game engine. Every
// operation returns structured state for the caller to render; the engine
// never formats user-facing text and performs no I/O besides the decoy call
// inside CloseAnswers.
type GameService interface {
	// StartGame creates a fresh session for the chat, replacing any prior
	// one regardless of its phase.
	StartGame(ctx context.Context, chatID, adminID int64) (domain.Snapshot, error)

	// SelectTheme accepts the raw selection text ("5" or "/5"); non-numeric
	// or out-of-range input is rejected with no phase change.
	SelectTheme(ctx context.Context, chatID int64, selection string) (domain.Snapshot, error)

	SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (domain.Snapshot, error)

	// SubmitAnswerDirect routes a private message to the session the user is
	// answering in, without the caller knowing the chat.
	SubmitAnswerDirect(ctx context.Context, userID int64, text string) (domain.Snapshot, error)

	// CloseAnswers is driven by the phase timer. It obtains the decoy,
	// builds the shuffled option list and starts voting. With zero answers
	// it reports domain.ErrNoAnswers and stays in place.
	CloseAnswers(ctx context.Context, chatID int64) (domain.Snapshot, error)

	CastVote(ctx context.Context, in CastVoteInput) (VoteReceipt, error)

	CastVoteDirect(ctx context.Context, userID int64, optionIndex int) (VoteReceipt, error)

	// CloseVoting is driven by the phase timer. It tallies, discloses the
	// decoy, ends the session and removes it from the store.
	CloseVoting(ctx context.Context, chatID int64) (domain.Results, error)

	// Cancel removes the session outright regardless of phase.
	Cancel(ctx context.Context, chatID int64) error

	Game(ctx context.Context, chatID int64) (domain.Snapshot, error)

	Themes() []string
}

package ports

import (
	"github.com/botornot/api/internal/core/domain"
)

// SessionStore owns the chat -> session mapping. Mutations of the map itself
// are brief; all game-state mutation happens inside the session under its
// own lock, so operations on different chats never block each other.
type SessionStore interface {
	// CreateOrReplace always succeeds. Any existing session for the chat is
	// discarded along with its in-flight answers and votes.
	CreateOrReplace(chatID, adminID int64) *domain.Session

	Get(chatID int64) (*domain.Session, bool)

	// Remove reports whether a session existed for the chat.
	Remove(chatID int64) bool

	// FindActiveFor routes a private-channel action to a session the user
	// belongs to in the required phase. If the user somehow participates in
	// several concurrent games the first match wins; the scan order is
	// unspecified.
	FindActiveFor(userID int64, phase domain.Phase) (int64, *domain.Session, bool)
}

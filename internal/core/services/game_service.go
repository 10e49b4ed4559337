package services

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
	"github.com/botornot/api/internal/core/voting"
)

type gameService struct {
	store   ports.SessionStore
	catalog *domain.ThemeCatalog
	decoy   ports.DecoyProvider
}

func NewGameService(store ports.SessionStore, catalog *domain.ThemeCatalog, decoy ports.DecoyProvider) ports.GameService {
	return &gameService{
		store:   store,
		catalog: catalog,
		decoy:   decoy,
	}
}

func (s *gameService) StartGame(ctx context.Context, chatID, adminID int64) (domain.Snapshot, error) {
	session := s.store.CreateOrReplace(chatID, adminID)
	return session.View(), nil
}

func (s *gameService) SelectTheme(ctx context.Context, chatID int64, selection string) (domain.Snapshot, error) {
	session, ok := s.store.Get(chatID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}

	// Players type the number as "5" or as the command "/5".
	trimmed := strings.TrimPrefix(strings.TrimSpace(selection), "/")
	index, err := strconv.Atoi(trimmed)
	if err != nil {
		return domain.Snapshot{}, domain.ErrOutOfRangeSelection
	}

	if _, err := session.SelectTheme(s.catalog, index); err != nil {
		return domain.Snapshot{}, err
	}
	return session.View(), nil
}

func (s *gameService) SubmitAnswer(ctx context.Context, in ports.SubmitAnswerInput) (domain.Snapshot, error) {
	session, ok := s.store.Get(in.ChatID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	if err := session.SubmitAnswer(in.UserID, in.Text); err != nil {
		return domain.Snapshot{}, err
	}
	return session.View(), nil
}

func (s *gameService) SubmitAnswerDirect(ctx context.Context, userID int64, text string) (domain.Snapshot, error) {
	chatID, _, ok := s.store.FindActiveFor(userID, domain.PhaseCollectingAnswers)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return s.SubmitAnswer(ctx, ports.SubmitAnswerInput{ChatID: chatID, UserID: userID, Text: text})
}

// CloseAnswers performs the decoy call before entering the session's
// critical section, so a slow generation never blocks concurrent answers.
// StartVoting re-validates the phase afterwards, which also makes a
// redundant timer firing a clean no-op.
func (s *gameService) CloseAnswers(ctx context.Context, chatID int64) (domain.Snapshot, error) {
	session, ok := s.store.Get(chatID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}

	theme, err := session.ClosingSnapshot()
	if err != nil {
		return domain.Snapshot{}, err
	}

	decoy, err := s.decoy.Generate(ctx, theme)
	if err != nil {
		log.Printf("decoy generation failed for chat %d, using fallback: %v", chatID, err)
		decoy = domain.FallbackDecoy
	}

	if _, err := session.StartVoting(decoy, voting.BuildOptions); err != nil {
		return domain.Snapshot{}, err
	}
	return session.View(), nil
}

func (s *gameService) CastVote(ctx context.Context, in ports.CastVoteInput) (ports.VoteReceipt, error) {
	session, ok := s.store.Get(in.ChatID)
	if !ok {
		return ports.VoteReceipt{}, domain.ErrSessionNotFound
	}
	if err := session.CastVote(in.UserID, in.OptionIndex); err != nil {
		return ports.VoteReceipt{}, err
	}
	return ports.VoteReceipt{ChatID: in.ChatID, OptionNumber: in.OptionIndex + 1}, nil
}

func (s *gameService) CastVoteDirect(ctx context.Context, userID int64, optionIndex int) (ports.VoteReceipt, error) {
	chatID, _, ok := s.store.FindActiveFor(userID, domain.PhaseVoting)
	if !ok {
		return ports.VoteReceipt{}, domain.ErrSessionNotFound
	}
	return s.CastVote(ctx, ports.CastVoteInput{ChatID: chatID, UserID: userID, OptionIndex: optionIndex})
}

func (s *gameService) CloseVoting(ctx context.Context, chatID int64) (domain.Results, error) {
	session, ok := s.store.Get(chatID)
	if !ok {
		return domain.Results{}, domain.ErrSessionNotFound
	}

	results, err := session.FinishVoting(voting.Tally)
	if err != nil {
		return domain.Results{}, err
	}

	// Results reported; the session has served its purpose.
	s.store.Remove(chatID)
	return results, nil
}

func (s *gameService) Cancel(ctx context.Context, chatID int64) error {
	if !s.store.Remove(chatID) {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *gameService) Game(ctx context.Context, chatID int64) (domain.Snapshot, error) {
	session, ok := s.store.Get(chatID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

func (s *gameService) Themes() []string {
	return s.catalog.Themes()
}

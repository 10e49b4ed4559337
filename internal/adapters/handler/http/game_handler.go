package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/botornot/api/internal/adapters/scheduler"
	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
)

// GameHandler is the transport layer: it parses chat-platform events into
// engine operations, owns the phase timers and performs the outbound
// deliveries the engine only describes.
type GameHandler struct {
	service      ports.GameService
	scheduler    *scheduler.Scheduler
	notifier     ports.Broadcaster
	phaseTimeout time.Duration
}

func NewGameHandler(service ports.GameService, sched *scheduler.Scheduler, notifier ports.Broadcaster, phaseTimeout time.Duration) *GameHandler {
	return &GameHandler{
		service:      service,
		scheduler:    sched,
		notifier:     notifier,
		phaseTimeout: phaseTimeout,
	}
}

type createGameRequest struct {
	ChatID  int64 `json:"chat_id"`
	AdminID int64 `json:"admin_id"`
}

type selectThemeRequest struct {
	Selection string `json:"selection"`
}

type submitAnswerRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type castVoteRequest struct {
	UserID      int64 `json:"user_id"`
	OptionIndex int   `json:"option_index"`
}

// CreateGame godoc
// @Summary      Starts a new game for a chat
// @Description  Creates a fresh session in theme selection, replacing any running game for that chat.
// @Tags         games
// @Accept       json
// @Success      201
// @Router       /games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// A replaced game keeps no obligations; drop its pending timer too.
	h.scheduler.Cancel(req.ChatID)

	snap, err := h.service.StartGame(r.Context(), req.ChatID, req.AdminID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	snap, err := h.service.Game(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SelectTheme godoc
// @Summary      Selects the game theme by its 1-based number
// @Tags         games
// @Accept       json
// @Success      200
// @Failure      400
// @Failure      409
// @Router       /games/{chatID}/theme [post]
func (h *GameHandler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req selectThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.service.SelectTheme(r.Context(), chatID, req.Selection)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.broadcast(r.Context(), []int64{chatID}, ports.Notification{
		ID:     uuid.New(),
		ChatID: chatID,
		Kind:   "answers_open",
		Text:   snap.Theme,
	})
	h.scheduler.Schedule(chatID, h.phaseTimeout, func() {
		h.closeAnswers(context.Background(), chatID)
	})

	writeJSON(w, http.StatusOK, snap)
}

func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.service.SubmitAnswer(r.Context(), ports.SubmitAnswerInput{
		ChatID: chatID,
		UserID: req.UserID,
		Text:   req.Text,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// SubmitAnswerDirect handles an answer arriving over a private channel,
// where the sender does not name the chat.
func (h *GameHandler) SubmitAnswerDirect(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.service.SubmitAnswerDirect(r.Context(), req.UserID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// CloseAnswers lets an operator end the collection phase early; the phase
// timer drives the same path.
func (h *GameHandler) CloseAnswers(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	snap, err := h.closeAnswers(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *GameHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		ChatID:      chatID,
		UserID:      req.UserID,
		OptionIndex: req.OptionIndex,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *GameHandler) CastVoteDirect(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.service.CastVoteDirect(r.Context(), req.UserID, req.OptionIndex)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *GameHandler) CloseVoting(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	results, err := h.closeVoting(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *GameHandler) CancelGame(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	h.scheduler.Cancel(chatID)
	if err := h.service.Cancel(r.Context(), chatID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// closeAnswers ends collection, announces the shuffled options and arms the
// voting timer. A stale timer firing after cancellation or replacement lands
// in the ErrSessionNotFound / ErrInvalidPhase branch and does nothing.
func (h *GameHandler) closeAnswers(ctx context.Context, chatID int64) (domain.Snapshot, error) {
	snap, err := h.service.CloseAnswers(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNoAnswers) {
			// Nobody answered in time: abort the game and tell the chat.
			h.scheduler.Cancel(chatID)
			if cancelErr := h.service.Cancel(ctx, chatID); cancelErr == nil {
				h.broadcast(ctx, []int64{chatID}, ports.Notification{
					ID:     uuid.New(),
					ChatID: chatID,
					Kind:   "aborted_no_answers",
				})
			}
		}
		return domain.Snapshot{}, err
	}

	recipients := append([]int64{chatID}, snap.Participants...)
	h.broadcast(ctx, recipients, ports.Notification{
		ID:      uuid.New(),
		ChatID:  chatID,
		Kind:    "voting_open",
		Options: snap.VotingOptions,
	})

	h.scheduler.Schedule(chatID, h.phaseTimeout, func() {
		if _, err := h.closeVoting(context.Background(), chatID); err != nil &&
			!errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrInvalidPhase) {
			log.Printf("voting close for chat %d failed: %v", chatID, err)
		}
	})

	return snap, nil
}

func (h *GameHandler) closeVoting(ctx context.Context, chatID int64) (domain.Results, error) {
	snap, err := h.service.Game(ctx, chatID)
	if err != nil {
		return domain.Results{}, err
	}

	results, err := h.service.CloseVoting(ctx, chatID)
	if err != nil {
		return domain.Results{}, err
	}

	h.scheduler.Cancel(chatID)

	recipients := append([]int64{chatID}, snap.Participants...)
	h.broadcast(ctx, recipients, ports.Notification{
		ID:      uuid.New(),
		ChatID:  chatID,
		Kind:    "results",
		Text:    resultsSummary(results),
		Options: results.Options,
	})

	return results, nil
}

func (h *GameHandler) broadcast(ctx context.Context, recipients []int64, msg ports.Notification) {
	failures := h.notifier.Broadcast(ctx, recipients, msg)
	for _, f := range failures {
		log.Printf("delivery of %s to %d failed: %v", msg.Kind, f.Recipient, f.Err)
	}
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid chat id", http.StatusBadRequest)
		return 0, false
	}
	return chatID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrOutOfRangeSelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrDuplicateSubmission):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidPhase):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNoAnswers):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

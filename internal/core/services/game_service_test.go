package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot/api/internal/adapters/repository/memory"
	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
)

type decoyFunc func(ctx context.Context, theme string) (string, error)

func (f decoyFunc) Generate(ctx context.Context, theme string) (string, error) {
	return f(ctx, theme)
}

func staticDecoy(text string) ports.DecoyProvider {
	return decoyFunc(func(ctx context.Context, theme string) (string, error) {
		return text, nil
	})
}

func failingDecoy() ports.DecoyProvider {
	return decoyFunc(func(ctx context.Context, theme string) (string, error) {
		return "", fmt.Errorf("%w: connection refused", domain.ErrGeneration)
	})
}

func newTestService(t *testing.T, decoy ports.DecoyProvider) ports.GameService {
	t.Helper()
	catalog, err := domain.NewThemeCatalog([]string{"Space", "Food", "Movies"})
	require.NoError(t, err)
	return NewGameService(memory.NewSessionStore(), catalog, decoy)
}

func TestStartGameReplacesExisting(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	first, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)

	_, err = svc.SelectTheme(ctx, 10, "1")
	require.NoError(t, err)

	second, err := svc.StartGame(ctx, 10, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.PhaseThemeSelect, second.Phase)
	assert.Equal(t, int64(2), second.AdminID)
}

func TestSelectThemeParsesCommandPrefix(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)

	snap, err := svc.SelectTheme(ctx, 10, "/2")
	require.NoError(t, err)
	assert.Equal(t, "Food", snap.Theme)
	assert.Equal(t, domain.PhaseCollectingAnswers, snap.Phase)
}

func TestSelectThemeRejectsBadInput(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)

	_, err = svc.SelectTheme(ctx, 10, "not a number")
	assert.ErrorIs(t, err, domain.ErrOutOfRangeSelection)

	_, err = svc.SelectTheme(ctx, 10, "99")
	assert.ErrorIs(t, err, domain.ErrOutOfRangeSelection)

	snap, err := svc.Game(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseThemeSelect, snap.Phase)
}

func TestSelectThemeWithoutGame(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))

	_, err := svc.SelectTheme(context.Background(), 10, "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCloseAnswersWithoutAnswers(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)
	_, err = svc.SelectTheme(ctx, 10, "1")
	require.NoError(t, err)

	_, err = svc.CloseAnswers(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrNoAnswers)

	snap, err := svc.Game(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCollectingAnswers, snap.Phase)
}

func TestCloseAnswersSubstitutesFallbackOnGenerationFailure(t *testing.T) {
	svc := newTestService(t, failingDecoy())
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)
	_, err = svc.SelectTheme(ctx, 10, "1")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, ports.SubmitAnswerInput{ChatID: 10, UserID: 100, Text: "x"})
	require.NoError(t, err)

	snap, err := svc.CloseAnswers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseVoting, snap.Phase)

	// The fallback occupies exactly one option slot like a real answer.
	require.Len(t, snap.VotingOptions, 2)
	assert.ElementsMatch(t, []string{"x", domain.FallbackDecoy}, snap.VotingOptions)
}

func TestDirectRouting(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)
	_, err = svc.SelectTheme(ctx, 10, "1")
	require.NoError(t, err)

	// Private answer finds the collecting session without naming the chat.
	snap, err := svc.SubmitAnswerDirect(ctx, 100, "mine")
	require.NoError(t, err)
	assert.Equal(t, int64(10), snap.ChatID)

	_, err = svc.SubmitAnswerDirect(ctx, 100, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	_, err = svc.CloseAnswers(ctx, 10)
	require.NoError(t, err)

	receipt, err := svc.CastVoteDirect(ctx, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), receipt.ChatID)
	assert.Equal(t, 1, receipt.OptionNumber)

	// Non-participants have no session to vote in.
	_, err = svc.CastVoteDirect(ctx, 999, 0)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCancel(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 10, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 10))
	assert.ErrorIs(t, svc.Cancel(ctx, 10), domain.ErrSessionNotFound)

	_, err = svc.Game(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestFullGameScenario(t *testing.T) {
	svc := newTestService(t, staticDecoy("z"))
	ctx := context.Background()

	_, err := svc.StartGame(ctx, 7, 1)
	require.NoError(t, err)

	snap, err := svc.SelectTheme(ctx, 7, "3")
	require.NoError(t, err)
	assert.Equal(t, "Movies", snap.Theme)

	_, err = svc.SubmitAnswer(ctx, ports.SubmitAnswerInput{ChatID: 7, UserID: 100, Text: "x"})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, ports.SubmitAnswerInput{ChatID: 7, UserID: 200, Text: "y"})
	require.NoError(t, err)

	snap, err = svc.CloseAnswers(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseVoting, snap.Phase)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, snap.VotingOptions)

	idxOf := func(text string) int {
		for i, opt := range snap.VotingOptions {
			if opt == text {
				return i
			}
		}
		t.Fatalf("option %q missing", text)
		return -1
	}

	_, err = svc.CastVote(ctx, ports.CastVoteInput{ChatID: 7, UserID: 100, OptionIndex: idxOf("x")})
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, ports.CastVoteInput{ChatID: 7, UserID: 200, OptionIndex: idxOf("z")})
	require.NoError(t, err)

	results, err := svc.CloseVoting(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, results.TotalVotes)
	assert.Equal(t, "z", results.DecoyAnswer)
	require.Len(t, results.Entries, 3)

	total := 0
	for _, e := range results.Entries {
		total += e.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, results.Entries[idxOf("x")].Count)
	assert.Equal(t, 1, results.Entries[idxOf("z")].Count)

	// Results reported once; the session is gone.
	_, err = svc.Game(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.CloseVoting(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

package domain

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the current stage of a single chat's game. Phases only move
// forward: theme_select -> collecting_answers -> voting -> ended.
type Phase string

const (
	PhaseThemeSelect       Phase = "theme_select"
	PhaseCollectingAnswers Phase = "collecting_answers"
	PhaseVoting            Phase = "voting"
	PhaseEnded             Phase = "ended"
)

// FallbackDecoy takes the decoy slot when generation fails, so voting can
// proceed with a consistent option count.
const FallbackDecoy = "An interesting answer (generation failed)"

// Session is the complete mutable state of one in-progress game, scoped to
// one chat. All exported methods serialize on the session's own mutex, so
// concurrent submissions and votes against the same chat interleave safely.
// Sessions for different chats share nothing.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	chatID  int64
	adminID int64

	phase         Phase
	theme         string
	answers       map[int64]string
	decoyAnswer   string
	votingOptions []string
	votes         map[int]int
	votedUsers    map[int64]struct{}
	startTime     time.Time
	createdAt     time.Time
}

func NewSession(chatID, adminID int64) *Session {
	return &Session{
		id:         uuid.New(),
		chatID:     chatID,
		adminID:    adminID,
		phase:      PhaseThemeSelect,
		answers:    make(map[int64]string),
		votes:      make(map[int]int),
		votedUsers: make(map[int64]struct{}),
		createdAt:  time.Now(),
	}
}

// SelectTheme resolves the 1-based index against the catalog and advances
// the session to answer collection. Valid only in theme_select.
func (s *Session) SelectTheme(catalog *ThemeCatalog, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseThemeSelect {
		return "", ErrInvalidPhase
	}

	theme, err := catalog.Theme(index)
	if err != nil {
		return "", err
	}

	s.theme = theme
	s.phase = PhaseCollectingAnswers
	return theme, nil
}

// SubmitAnswer records one answer per participant, verbatim. A second
// submission from the same user is rejected without overwriting the first.
func (s *Session) SubmitAnswer(userID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCollectingAnswers {
		return ErrInvalidPhase
	}
	if _, ok := s.answers[userID]; ok {
		return ErrDuplicateSubmission
	}

	s.answers[userID] = text
	return nil
}

// ClosingSnapshot reports whether the session is ready to leave answer
// collection and returns the theme for decoy generation. It does not
// transition; the caller performs the (possibly slow) external call without
// holding the session and then commits via StartVoting.
func (s *Session) ClosingSnapshot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCollectingAnswers {
		return "", ErrInvalidPhase
	}
	if len(s.answers) == 0 {
		return "", ErrNoAnswers
	}
	return s.theme, nil
}

// StartVoting commits the collecting_answers -> voting transition. The phase
// and answer set are re-checked here because the decoy was generated outside
// the lock; options are built from whatever answers exist at commit time, so
// len(options) == len(answers)+1 always holds.
func (s *Session) StartVoting(decoy string, build func(answers []string, decoy string) []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCollectingAnswers {
		return nil, ErrInvalidPhase
	}
	if len(s.answers) == 0 {
		return nil, ErrNoAnswers
	}

	answers := make([]string, 0, len(s.answers))
	for _, a := range s.answers {
		answers = append(answers, a)
	}

	s.decoyAnswer = decoy
	s.votingOptions = build(answers, decoy)
	s.phase = PhaseVoting
	s.startTime = time.Now()

	out := make([]string, len(s.votingOptions))
	copy(out, s.votingOptions)
	return out, nil
}

// CastVote records one vote per participant against a 0-based option index.
func (s *Session) CastVote(userID int64, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseVoting {
		return ErrInvalidPhase
	}
	if _, ok := s.votedUsers[userID]; ok {
		return ErrDuplicateSubmission
	}
	if optionIndex < 0 || optionIndex >= len(s.votingOptions) {
		return ErrOutOfRangeSelection
	}

	s.votes[optionIndex]++
	s.votedUsers[userID] = struct{}{}
	return nil
}

// FinishVoting advances to ended and returns the results, disclosing the
// decoy for the first time. The tally function receives a copy of the vote
// counts; zero votes cast is a valid outcome, not an error.
func (s *Session) FinishVoting(tally func(votes map[int]int, optionCount int) []OptionTally) (Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseVoting {
		return Results{}, ErrInvalidPhase
	}

	votes := make(map[int]int, len(s.votes))
	total := 0
	for idx, n := range s.votes {
		votes[idx] = n
		total += n
	}

	options := make([]string, len(s.votingOptions))
	copy(options, s.votingOptions)

	s.phase = PhaseEnded

	return Results{
		ChatID:      s.chatID,
		Options:     options,
		Entries:     tally(votes, len(options)),
		TotalVotes:  total,
		DecoyAnswer: s.decoyAnswer,
	}, nil
}

func (s *Session) ID() uuid.UUID { return s.id }
func (s *Session) ChatID() int64 { return s.chatID }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Matches reports whether this session should receive a privately routed
// action from userID in the given phase. During answer collection any group
// member may still answer, so phase alone decides; during voting only users
// with a recorded answer are recognized participants.
func (s *Session) Matches(userID int64, phase Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phase {
		return false
	}
	if phase == PhaseVoting {
		_, ok := s.answers[userID]
		return ok
	}
	return true
}

// Snapshot is a read-only copy of session state for transport rendering.
type Snapshot struct {
	ID            uuid.UUID `json:"id"`
	ChatID        int64     `json:"chat_id"`
	AdminID       int64     `json:"admin_id"`
	Phase         Phase     `json:"phase"`
	Theme         string    `json:"theme,omitempty"`
	AnswerCount   int       `json:"answer_count"`
	Participants  []int64   `json:"participants,omitempty"`
	VotingOptions []string  `json:"voting_options,omitempty"`
	VotesCast     int       `json:"votes_cast"`
	StartTime     time.Time `json:"voting_started_at,omitzero"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants := make([]int64, 0, len(s.answers))
	for id := range s.answers {
		participants = append(participants, id)
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i] < participants[j] })

	options := make([]string, len(s.votingOptions))
	copy(options, s.votingOptions)

	total := 0
	for _, n := range s.votes {
		total += n
	}

	return Snapshot{
		ID:            s.id,
		ChatID:        s.chatID,
		AdminID:       s.adminID,
		Phase:         s.phase,
		Theme:         s.theme,
		AnswerCount:   len(s.answers),
		Participants:  participants,
		VotingOptions: options,
		VotesCast:     total,
		StartTime:     s.startTime,
		CreatedAt:     s.createdAt,
	}
}

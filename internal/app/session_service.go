package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kbassist/internal/model"
)

const (
	defaultSessionCap    = 10
	defaultHistoryWindow = 5
)

// TurnCache is the durable store for a session's capped turn list.
type TurnCache interface {
	Load(ctx context.Context, sessionID string) ([]model.ChatTurn, bool, error)
	Save(ctx context.Context, sessionID string, turns []model.ChatTurn) error
	Delete(ctx context.Context, sessionID string) error
}

// TurnArchiver receives every appended turn for asynchronous persistence.
type TurnArchiver interface {
	Publish(ctx context.Context, rec model.TurnRecord) error
}

// SessionService owns the turn list of a conversation: seeding, appends,
// capped persistence and reset. Transitions are sequential per session; the
// service itself keeps no state between calls.
type SessionService struct {
	cache    TurnCache
	archiver TurnArchiver
	welcome  string
	cap      int
	window   int
	logger   zerolog.Logger
}

func NewSessionService(cache TurnCache, archiver TurnArchiver, welcome string, cap, window int, logger zerolog.Logger) *SessionService {
	if cap <= 0 {
		cap = defaultSessionCap
	}
	if window <= 0 {
		window = defaultHistoryWindow
	}
	if strings.TrimSpace(welcome) == "" {
		welcome = "Hello! How can I help you today?"
	}
	return &SessionService{
		cache:    cache,
		archiver: archiver,
		welcome:  welcome,
		cap:      cap,
		window:   window,
		logger:   logger,
	}
}

// History returns the session's turn list, falling back to the seeded
// welcome turn when the cache is empty, missing or unreadable.
func (s *SessionService) History(ctx context.Context, sessionID string) []model.ChatTurn {
	if sessionID == "" {
		return s.seed()
	}
	turns, ok, err := s.cache.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session load failed, using seed")
		return s.seed()
	}
	if !ok || len(turns) == 0 {
		return s.seed()
	}
	return turns
}

// Window returns the most recent turns handed to the prompt builder: always
// a suffix of the full list, never the unbounded history.
func (s *SessionService) Window(turns []model.ChatTurn) []model.ChatTurn {
	if len(turns) <= s.window {
		return turns
	}
	return turns[len(turns)-s.window:]
}

// AppendExchange appends the user and assistant turns, truncates to the cap
// and persists the result. Both turns are also published to the archive
// queue; archival is best effort and never fails the exchange.
func (s *SessionService) AppendExchange(ctx context.Context, sessionID string, userTurn, assistantTurn model.ChatTurn) ([]model.ChatTurn, error) {
	turns := s.History(ctx, sessionID)
	turns = append(turns, userTurn, assistantTurn)
	if len(turns) > s.cap {
		turns = turns[len(turns)-s.cap:]
	}

	if sessionID != "" {
		if err := s.cache.Save(ctx, sessionID, turns); err != nil {
			return nil, err
		}
	}

	if s.archiver != nil && sessionID != "" {
		for _, turn := range []model.ChatTurn{userTurn, assistantTurn} {
			if err := s.archiver.Publish(ctx, model.NewTurnRecord(sessionID, turn)); err != nil {
				s.logger.Warn().Err(err).Str("turn_id", turn.ID).Msg("turn archive publish failed")
			}
		}
	}
	return turns, nil
}

// Reset restores the session to its seeded state and clears the cache entry.
func (s *SessionService) Reset(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	if sessionID != "" {
		if err := s.cache.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	return s.seed(), nil
}

// NewUserTurn builds a user turn for the given content.
func NewUserTurn(content string) model.ChatTurn {
	return model.ChatTurn{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn builds an assistant turn carrying its cited sources.
func NewAssistantTurn(content string, sources []model.Source) model.ChatTurn {
	return model.ChatTurn{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Sources:   sources,
	}
}

func (s *SessionService) seed() []model.ChatTurn {
	return []model.ChatTurn{
		{
			ID:        uuid.NewString(),
			Role:      model.RoleAssistant,
			Content:   s.welcome,
			Timestamp: time.Now(),
		},
	}
}

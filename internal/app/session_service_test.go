package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbassist/internal/model"
)

type memTurnCache struct {
	store   map[string][]model.ChatTurn
	loadErr error
}

func newMemTurnCache() *memTurnCache {
	return &memTurnCache{store: make(map[string][]model.ChatTurn)}
}

func (m *memTurnCache) Load(_ context.Context, sessionID string) ([]model.ChatTurn, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	turns, ok := m.store[sessionID]
	return turns, ok, nil
}

func (m *memTurnCache) Save(_ context.Context, sessionID string, turns []model.ChatTurn) error {
	m.store[sessionID] = turns
	return nil
}

func (m *memTurnCache) Delete(_ context.Context, sessionID string) error {
	delete(m.store, sessionID)
	return nil
}

type recordingArchiver struct {
	records []model.TurnRecord
}

func (r *recordingArchiver) Publish(_ context.Context, rec model.TurnRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func newTestSessionService(cache TurnCache, archiver TurnArchiver) *SessionService {
	return NewSessionService(cache, archiver, "welcome!", 10, 5, zerolog.Nop())
}

func TestSessionSeedAndLoad(t *testing.T) {
	cache := newMemTurnCache()
	svc := newTestSessionService(cache, nil)

	t.Run("fresh session gets seed turn", func(t *testing.T) {
		turns := svc.History(context.Background(), "s1")
		require.Len(t, turns, 1)
		assert.Equal(t, model.RoleAssistant, turns[0].Role)
		assert.Equal(t, "welcome!", turns[0].Content)
	})

	t.Run("load failure falls back to seed", func(t *testing.T) {
		broken := newMemTurnCache()
		broken.loadErr = errors.New("unreadable")
		svc := newTestSessionService(broken, nil)
		turns := svc.History(context.Background(), "s1")
		require.Len(t, turns, 1)
		assert.Equal(t, "welcome!", turns[0].Content)
	})
}

func TestSessionTruncationAtCap(t *testing.T) {
	cache := newMemTurnCache()
	svc := newTestSessionService(cache, nil)
	ctx := context.Background()

	// Six exchanges append 12 turns total.
	var appended []model.ChatTurn
	for i := 0; i < 6; i++ {
		user := NewUserTurn(fmt.Sprintf("question %d", i))
		assistant := NewAssistantTurn(fmt.Sprintf("answer %d", i), nil)
		appended = append(appended, user, assistant)
		_, err := svc.AppendExchange(ctx, "s1", user, assistant)
		require.NoError(t, err)
	}

	stored := cache.store["s1"]
	require.Len(t, stored, 10)
	for i, turn := range stored {
		assert.Equal(t, appended[len(appended)-10+i].ID, turn.ID)
	}
}

func TestSessionWindow(t *testing.T) {
	svc := newTestSessionService(newMemTurnCache(), nil)

	var turns []model.ChatTurn
	for i := 0; i < 8; i++ {
		turns = append(turns, NewUserTurn(fmt.Sprintf("t%d", i)))
	}

	window := svc.Window(turns)
	require.Len(t, window, 5)
	assert.Equal(t, turns[3].ID, window[0].ID)
	assert.Equal(t, turns[7].ID, window[4].ID)

	short := turns[:3]
	assert.Equal(t, short, svc.Window(short))
}

func TestSessionReset(t *testing.T) {
	cache := newMemTurnCache()
	svc := newTestSessionService(cache, nil)
	ctx := context.Background()

	_, err := svc.AppendExchange(ctx, "s1", NewUserTurn("q"), NewAssistantTurn("a", nil))
	require.NoError(t, err)
	require.NotEmpty(t, cache.store["s1"])

	turns, err := svc.Reset(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "welcome!", turns[0].Content)

	_, ok := cache.store["s1"]
	assert.False(t, ok)
}

func TestSessionArchivesTurns(t *testing.T) {
	cache := newMemTurnCache()
	archiver := &recordingArchiver{}
	svc := newTestSessionService(cache, archiver)

	user := NewUserTurn("q")
	assistant := NewAssistantTurn("a", []model.Source{{ID: "r1", Title: "Doc"}})
	_, err := svc.AppendExchange(context.Background(), "s1", user, assistant)
	require.NoError(t, err)

	require.Len(t, archiver.records, 2)
	assert.Equal(t, user.ID, archiver.records[0].TurnID)
	assert.Equal(t, "s1", archiver.records[0].SessionID)
	assert.Equal(t, assistant.ID, archiver.records[1].TurnID)
	assert.Contains(t, archiver.records[1].Sources, "r1")
}

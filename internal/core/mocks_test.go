package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/SyncTube/internal/domain"
)

// --- Resolver ---

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveByID(ctx context.Context, videoID string) (domain.Song, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(domain.Song), args.Error(1)
}

func (m *MockResolver) ResolveByQuery(ctx context.Context, query string) (domain.Song, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Song), args.Error(1)
}

// --- Sender ---

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (c *fakeConn) TrySend(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("send failed")
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(f, &ev))
		out = append(out, ev)
	}
	return out
}

// lastEvent returns the most recent event of the given type, or nil.
func (c *fakeConn) lastEvent(t *testing.T, event string) map[string]any {
	t.Helper()
	evs := c.events(t)
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i]["event"] == event {
			return evs[i]
		}
	}
	return nil
}

// --- Clock ---

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestGuild(resolver Resolver) (*Guild, *testClock) {
	clk := &testClock{t: time.Unix(1700000000, 0)}
	g := NewGuild("test-guild", resolver)
	g.now = clk.Now
	g.lastUpdate = clk.Now()
	return g, clk
}

// stateSnapshot reconciles and reads the media state the way a state
// event would report it.
func (g *Guild) stateSnapshot() domain.MediaState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reconcile()
	return g.state
}

func songFixture(length int) domain.Song {
	return domain.Song{
		URL:    "https://youtube.com/embed/abc123",
		Title:  "Test Song",
		Artist: "Test Artist",
		Length: length,
		Art:    "https://img.example/abc123.jpg",
	}
}

package reconciler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/livekit"
	"jan-server/services/pairing-api/internal/infrastructure/repository/sessionrepo"
)

type roomListerFunc func(ctx context.Context) ([]livekit.RoomInfo, error)

func (f roomListerFunc) ListRooms(ctx context.Context) ([]livekit.RoomInfo, error) { return f(ctx) }

type deleteRecorder struct {
	mu       sync.Mutex
	calls    []string
	channels []string
	failCall bool
}

func (d *deleteRecorder) CreateCall(context.Context, string, string, session.CallMetadata) error {
	return nil
}

func (d *deleteRecorder) DeleteCall(_ context.Context, callID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, callID)
	if d.failCall {
		return errors.New("livekit down")
	}
	return nil
}

func (d *deleteRecorder) CreateChannel(context.Context, string, string, []string) error { return nil }

func (d *deleteRecorder) AddMember(context.Context, string, string) error { return nil }

func (d *deleteRecorder) DeleteChannel(_ context.Context, callID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels = append(d.channels, callID)
	return nil
}

func TestSweepRemovesCompletedAndOrphanedRooms(t *testing.T) {
	ctx := context.Background()
	repo := sessionrepo.NewInMemoryRepository(nil)

	active, err := repo.Create(ctx, &session.NewSession{Problem: "p", Difficulty: "d", CallID: "session_1_active", HostID: "alice"})
	require.NoError(t, err)
	completed, err := repo.Create(ctx, &session.NewSession{Problem: "p", Difficulty: "d", CallID: "session_2_done", HostID: "alice"})
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, completed.ID, session.StatusCompleted)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-time.Hour)
	rooms := []livekit.RoomInfo{
		{Name: active.CallID, CreatedAt: old},
		{Name: completed.CallID, CreatedAt: old},
		{Name: "session_3_orphan", CreatedAt: old},
		{Name: "session_4_fresh", CreatedAt: now.Add(-time.Second)},
		{Name: "lobby", CreatedAt: old},
	}

	rec := &deleteRecorder{}
	r := New(roomListerFunc(func(context.Context) ([]livekit.RoomInfo, error) { return rooms, nil }),
		repo, rec, rec, 5*time.Minute, time.Minute, time.Second, zerolog.Nop())
	r.now = func() time.Time { return now }

	cleaned := r.Sweep(ctx)

	assert.Equal(t, 2, cleaned)
	sort.Strings(rec.calls)
	sort.Strings(rec.channels)
	assert.Equal(t, []string{"session_2_done", "session_3_orphan"}, rec.calls)
	assert.Equal(t, []string{"session_2_done", "session_3_orphan"}, rec.channels)

	stillActive, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusActive, stillActive.Status)
}

func TestSweepCountsPartialFailure(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := &deleteRecorder{failCall: true}
	r := New(roomListerFunc(func(context.Context) ([]livekit.RoomInfo, error) {
		return []livekit.RoomInfo{{Name: "session_1_orphan", CreatedAt: now.Add(-time.Hour)}}, nil
	}), sessionrepo.NewInMemoryRepository(nil), rec, rec, time.Minute, time.Minute, time.Second, zerolog.Nop())
	r.now = func() time.Time { return now }

	assert.Equal(t, 0, r.Sweep(context.Background()))
	assert.Equal(t, []string{"session_1_orphan"}, rec.calls)
	assert.Equal(t, []string{"session_1_orphan"}, rec.channels)
}

func TestSweepToleratesListFailure(t *testing.T) {
	rec := &deleteRecorder{}
	r := New(roomListerFunc(func(context.Context) ([]livekit.RoomInfo, error) {
		return nil, errors.New("unavailable")
	}), sessionrepo.NewInMemoryRepository(nil), rec, rec, time.Minute, time.Minute, time.Second, zerolog.Nop())

	assert.Equal(t, 0, r.Sweep(context.Background()))
	assert.Empty(t, rec.calls)
}

func TestStartStopAreIdempotent(t *testing.T) {
	rec := &deleteRecorder{}
	r := New(roomListerFunc(func(context.Context) ([]livekit.RoomInfo, error) { return nil, nil }),
		sessionrepo.NewInMemoryRepository(nil), rec, rec, time.Minute, 10*time.Millisecond, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx)
	r.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop()
}

package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/livekit"
	"jan-server/services/pairing-api/internal/infrastructure/metrics"
	"jan-server/services/pairing-api/internal/utils/idgen"
)

// RoomLister lists the video rooms currently open.
type RoomLister interface {
	ListRooms(ctx context.Context) ([]livekit.RoomInfo, error)
}

// SessionFinder resolves a room back to its session.
type SessionFinder interface {
	FindByCallID(ctx context.Context, callID string) (*session.Session, error)
}

// Reconciler periodically removes collaboration resources whose session is
// completed or no longer exists:
// - completed: End committed but best-effort cleanup failed
// - orphaned: Create compensation could not delete the room or channel
// Rooms younger than the grace period are left alone so in-flight creations
// are never touched.
type Reconciler struct {
	rooms     RoomLister
	sessions  SessionFinder
	video     session.VideoProvisioner
	chat      session.ChatProvisioner
	grace     time.Duration
	interval  time.Duration
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a reconciler. timeout bounds each provider call.
func New(
	rooms RoomLister,
	sessions SessionFinder,
	video session.VideoProvisioner,
	chat session.ChatProvisioner,
	grace, interval, timeout time.Duration,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		rooms:    rooms,
		sessions: sessions,
		video:    video,
		chat:     chat,
		grace:    grace,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		log:      log.With().Str("component", "session-reconciler").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in background.
// Safe to call multiple times - only the first call starts the loop.
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run(ctx)
		r.log.Info().Dur("interval", r.interval).Dur("grace", r.grace).Msg("session reconciler started")
	})
}

// Stop gracefully shuts down the loop.
// Safe to call multiple times - only the first call stops it.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.log.Info().Msg("session reconciler stopped")
	})
}

func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reconciliation pass and returns the number of rooms cleaned.
func (r *Reconciler) Sweep(ctx context.Context) int {
	started := time.Now()
	defer func() { metrics.ReconcileDuration.Observe(time.Since(started).Seconds()) }()

	rooms, err := r.rooms.ListRooms(ctx)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		r.log.Warn().Err(err).Msg("failed to list rooms")
		return 0
	}

	now := r.now()
	cleaned := 0
	for _, room := range rooms {
		if !idgen.IsCallID(room.Name) || now.Sub(room.CreatedAt) < r.grace {
			continue
		}

		reason, ok := r.classify(ctx, room.Name)
		if !ok {
			continue
		}
		if r.cleanup(ctx, room.Name, reason) {
			cleaned++
		}
	}

	if cleaned > 0 {
		r.log.Info().Int("rooms", len(rooms)).Int("cleaned", cleaned).Msg("reconcile cycle")
	}
	return cleaned
}

// classify reports why callID's resources should be removed, if at all.
func (r *Reconciler) classify(ctx context.Context, callID string) (string, bool) {
	sess, err := r.sessions.FindByCallID(ctx, callID)
	switch {
	case session.IsNotFound(err):
		return "orphaned", true
	case err != nil:
		metrics.ReconcileErrors.Inc()
		r.log.Warn().Err(err).Str("call_id", callID).Msg("failed to resolve session for room")
		return "", false
	case sess.Status == session.StatusCompleted:
		return "completed", true
	default:
		return "", false
	}
}

func (r *Reconciler) cleanup(ctx context.Context, callID, reason string) bool {
	ok := true

	vctx, cancel := context.WithTimeout(ctx, r.timeout)
	err := r.video.DeleteCall(vctx, callID)
	cancel()
	if err != nil {
		ok = false
		metrics.ReconcileErrors.Inc()
		r.log.Warn().Err(err).Str("call_id", callID).Msg("failed to delete orphaned room")
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	err = r.chat.DeleteChannel(cctx, callID)
	cancel()
	if err != nil {
		ok = false
		metrics.ReconcileErrors.Inc()
		r.log.Warn().Err(err).Str("call_id", callID).Msg("failed to delete orphaned channel")
	}

	if ok {
		metrics.ReconcileDeletions.WithLabelValues(reason).Inc()
		r.log.Info().Str("call_id", callID).Str("reason", reason).Msg("collaboration resources removed")
	}
	return ok
}

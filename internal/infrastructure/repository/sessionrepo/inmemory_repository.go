package sessionrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// ProfileLookup resolves identity projections for the in-memory repository.
type ProfileLookup interface {
	Lookup(id string) (identity.Profile, bool)
}

type memoryRecord struct {
	session.Session
	seq uint64
}

// InMemoryRepository is a mutex-guarded session repository. Every mutation
// checks its precondition and writes under the same lock, which gives the
// conditional updates the same semantics as the Postgres statements.
type InMemoryRepository struct {
	mu        sync.RWMutex
	sessions  map[string]*memoryRecord
	callIndex map[string]string // call id -> session id
	seq       uint64
	profiles  ProfileLookup
	now       func() time.Time
}

// NewInMemoryRepository creates an empty repository. profiles may be nil.
func NewInMemoryRepository(profiles ProfileLookup) *InMemoryRepository {
	return &InMemoryRepository{
		sessions:  make(map[string]*memoryRecord),
		callIndex: make(map[string]string),
		profiles:  profiles,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, in *session.NewSession) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.callIndex[in.CallID]; exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"call id already in use", nil, "")
	}

	now := r.now()
	r.seq++
	rec := &memoryRecord{
		Session: session.Session{
			ID:         uuid.NewString(),
			Problem:    in.Problem,
			Difficulty: in.Difficulty,
			CallID:     in.CallID,
			HostID:     in.HostID,
			Status:     session.StatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		seq: r.seq,
	}
	r.sessions[rec.ID] = rec
	r.callIndex[rec.CallID] = rec.ID
	return r.project(rec), nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, notFound(ctx, id)
	}
	return r.project(rec), nil
}

func (r *InMemoryRepository) FindByCallID(ctx context.Context, callID string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.callIndex[callID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"session not found for call", nil, "")
	}
	return r.project(r.sessions[id]), nil
}

func (r *InMemoryRepository) FindActive(_ context.Context, limit int) ([]*session.Session, error) {
	return r.filter(limit, func(s *session.Session) bool {
		return s.Status == session.StatusActive
	}), nil
}

func (r *InMemoryRepository) FindRecentFor(_ context.Context, userID string, limit int) ([]*session.Session, error) {
	return r.filter(limit, func(s *session.Session) bool {
		return s.HostID == userID || s.ParticipantID == userID
	}), nil
}

func (r *InMemoryRepository) SetParticipant(ctx context.Context, id, participantID string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, notFound(ctx, id)
	}
	if rec.Status != session.StatusActive || rec.ParticipantID != "" || rec.HostID == participantID {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"session is no longer open for joining", nil, "", map[string]any{"session_id": id})
	}
	rec.ParticipantID = participantID
	rec.UpdatedAt = r.now()
	return r.project(rec), nil
}

func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status session.Status) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, notFound(ctx, id)
	}
	if rec.Status != session.StatusActive || rec.ParticipantID != "" {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInvalidState,
			"session can no longer change status", nil, "", map[string]any{"session_id": id})
	}
	rec.Status = status
	rec.UpdatedAt = r.now()
	return r.project(rec), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return notFound(ctx, id)
	}
	delete(r.callIndex, rec.CallID)
	delete(r.sessions, id)
	return nil
}

func (r *InMemoryRepository) filter(limit int, match func(*session.Session) bool) []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*memoryRecord, 0)
	for _, rec := range r.sessions {
		if match(&rec.Session) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	result := make([]*session.Session, 0, len(matched))
	for _, rec := range matched {
		result = append(result, r.project(rec))
	}
	return result
}

// project returns a detached copy with identity projections resolved.
func (r *InMemoryRepository) project(rec *memoryRecord) *session.Session {
	out := rec.Session
	out.Host = r.lookup(out.HostID)
	out.Participant = r.lookup(out.ParticipantID)
	return &out
}

func (r *InMemoryRepository) lookup(id string) *identity.Profile {
	if id == "" {
		return nil
	}
	if r.profiles != nil {
		if profile, ok := r.profiles.Lookup(id); ok {
			return &profile
		}
	}
	return &identity.Profile{ID: id}
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"session not found", nil, "", map[string]any{"session_id": id})
}

package session

import (
	"context"
	"time"
)

// EventType names a lifecycle transition.
type EventType string

const (
	EventCreated EventType = "session.created"
	EventJoined  EventType = "session.joined"
	EventEnded   EventType = "session.ended"
)

// Event is published after a lifecycle operation commits.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	CallID    string    `json:"call_id"`
	ActorID   string    `json:"actor_id"`
	At        time.Time `json:"at"`
}

// EventPublisher delivers lifecycle events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder receives lifecycle counters.
type Recorder interface {
	RecordLifecycle(event EventType)
	RecordJoinConflict()
	RecordCompensation(step string, failed bool)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordLifecycle(EventType)       {}
func (nopRecorder) RecordJoinConflict()             {}
func (nopRecorder) RecordCompensation(string, bool) {}

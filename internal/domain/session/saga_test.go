package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compensationRecord struct {
	step   string
	failed bool
}

type recorderStub struct {
	nopRecorder
	compensations []compensationRecord
	lifecycle     []EventType
	conflicts     int
}

func (r *recorderStub) RecordCompensation(step string, failed bool) {
	r.compensations = append(r.compensations, compensationRecord{step: step, failed: failed})
}

func (r *recorderStub) RecordLifecycle(event EventType) {
	r.lifecycle = append(r.lifecycle, event)
}

func (r *recorderStub) RecordJoinConflict() {
	r.conflicts++
}

func newTestSaga(rec Recorder, steps ...step) *saga {
	return &saga{
		name:                "test",
		steps:               steps,
		compensationTimeout: time.Second,
		recorder:            rec,
		log:                 zerolog.Nop(),
	}
}

func TestSagaRunsAllSteps(t *testing.T) {
	var trace []string
	mk := func(name string) step {
		return step{
			name:       name,
			action:     func(context.Context) error { trace = append(trace, "do:"+name); return nil },
			compensate: func(context.Context) error { trace = append(trace, "undo:"+name); return nil },
		}
	}

	err := newTestSaga(nopRecorder{}, mk("a"), mk("b"), mk("c")).run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"do:a", "do:b", "do:c"}, trace)
}

func TestSagaCompensatesInReverseOrder(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	ok := func(name string) step {
		return step{
			name:       name,
			action:     func(context.Context) error { trace = append(trace, "do:"+name); return nil },
			compensate: func(context.Context) error { trace = append(trace, "undo:"+name); return nil },
		}
	}
	failing := step{
		name:       "c",
		action:     func(context.Context) error { trace = append(trace, "do:c"); return boom },
		compensate: func(context.Context) error { trace = append(trace, "undo:c"); return nil },
	}
	rec := &recorderStub{}

	err := newTestSaga(rec, ok("a"), ok("b"), failing, ok("d")).run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do:a", "do:b", "do:c", "undo:b", "undo:a"}, trace)
	assert.Equal(t, []compensationRecord{{"b", false}, {"a", false}}, rec.compensations)
}

func TestSagaCompensationFailureIsSwallowed(t *testing.T) {
	boom := errors.New("boom")
	var undone []string
	steps := []step{
		{
			name:       "a",
			action:     func(context.Context) error { return nil },
			compensate: func(context.Context) error { undone = append(undone, "a"); return nil },
		},
		{
			name:       "b",
			action:     func(context.Context) error { return nil },
			compensate: func(context.Context) error { undone = append(undone, "b"); return errors.New("undo failed") },
		},
		{
			name:   "c",
			action: func(context.Context) error { return boom },
		},
	}
	rec := &recorderStub{}

	err := newTestSaga(rec, steps...).run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "a"}, undone)
	assert.Equal(t, []compensationRecord{{"b", true}, {"a", false}}, rec.compensations)
}

func TestSagaCompensatesAfterCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var compensateErr error
	steps := []step{
		{
			name:   "a",
			action: func(context.Context) error { return nil },
			compensate: func(ctx context.Context) error {
				compensateErr = ctx.Err()
				return nil
			},
		},
		{
			name: "b",
			action: func(context.Context) error {
				cancel()
				return context.Canceled
			},
		},
	}

	err := newTestSaga(nopRecorder{}, steps...).run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, compensateErr)
}

func TestSagaUndoesFailingStepMarkedUndoOnError(t *testing.T) {
	var trace []string
	timeout := context.DeadlineExceeded
	steps := []step{
		{
			name:       "a",
			action:     func(context.Context) error { return nil },
			compensate: func(context.Context) error { trace = append(trace, "undo:a"); return nil },
		},
		{
			name:        "b",
			action:      func(context.Context) error { return timeout },
			compensate:  func(context.Context) error { trace = append(trace, "undo:b"); return nil },
			undoOnError: true,
		},
	}
	rec := &recorderStub{}

	err := newTestSaga(rec, steps...).run(context.Background())

	require.ErrorIs(t, err, timeout)
	assert.Equal(t, []string{"undo:b", "undo:a"}, trace)
	assert.Equal(t, []compensationRecord{{"b", false}, {"a", false}}, rec.compensations)
}

package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// step is one forward action of a saga and the action that undoes it.
type step struct {
	name        string
	action      func(ctx context.Context) error
	compensate  func(ctx context.Context) error
	// undoOnError also compensates the step when its own action fails. Set it
	// for remote calls that can take effect before reporting a timeout.
	undoOnError bool
}

// saga runs steps in order. When a step fails, the compensations of the steps
// that completed run in reverse order and the failing step's error is returned.
// A failing step marked undoOnError is compensated first. Compensation errors
// are logged and never returned.
type saga struct {
	name                string
	steps               []step
	compensationTimeout time.Duration
	recorder            Recorder
	log                 zerolog.Logger
}

func (s *saga) run(ctx context.Context) error {
	completed := make([]step, 0, len(s.steps))
	for _, st := range s.steps {
		if err := st.action(ctx); err != nil {
			s.log.Warn().Err(err).Str("saga", s.name).Str("step", st.name).Msg("saga step failed, compensating")
			if st.undoOnError {
				completed = append(completed, st)
			}
			s.rollback(ctx, completed)
			return err
		}
		completed = append(completed, st)
	}
	return nil
}

func (s *saga) rollback(ctx context.Context, completed []step) {
	// The caller may already be gone; compensation still has to run.
	ctx = context.WithoutCancel(ctx)

	for i := len(completed) - 1; i >= 0; i-- {
		st := completed[i]
		if st.compensate == nil {
			continue
		}

		cctx, cancel := context.WithTimeout(ctx, s.compensationTimeout)
		err := st.compensate(cctx)
		cancel()

		s.recorder.RecordCompensation(st.name, err != nil)
		if err != nil {
			s.log.Error().Err(err).Str("saga", s.name).Str("step", st.name).Msg("compensation failed")
			continue
		}
		s.log.Info().Str("saga", s.name).Str("step", st.name).Msg("compensation applied")
	}
}

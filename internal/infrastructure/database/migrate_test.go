package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct {
	calls int
	err   error
}

func (c *closeCounter) Close() error {
	c.calls++
	return c.err
}

func runWithClosers(result error, closers ...*closeCounter) (err error) {
	for _, c := range closers {
		defer closeInto(&err, "resource", c.Close)
	}
	return result
}

func TestCloseInto(t *testing.T) {
	t.Run("closes on success", func(t *testing.T) {
		source, conn := &closeCounter{}, &closeCounter{}

		err := runWithClosers(nil, conn, source)

		require.NoError(t, err)
		assert.Equal(t, 1, source.calls)
		assert.Equal(t, 1, conn.calls)
	})

	t.Run("reports close failure", func(t *testing.T) {
		closeErr := errors.New("source busy")
		source := &closeCounter{err: closeErr}

		err := runWithClosers(nil, source)

		require.ErrorIs(t, err, closeErr)
		assert.Contains(t, err.Error(), "close resource")
	})

	t.Run("keeps earlier failure", func(t *testing.T) {
		upErr := errors.New("apply migrations")
		source := &closeCounter{err: errors.New("source busy")}

		err := runWithClosers(upErr, source)

		assert.Equal(t, upErr, err)
		assert.Equal(t, 1, source.calls)
	})
}

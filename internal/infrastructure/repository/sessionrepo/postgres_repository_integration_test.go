//go:build integration

package sessionrepo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/database"
	"jan-server/services/pairing-api/internal/infrastructure/repository/userrepo"
)

// setupPostgres starts a Postgres container and applies the migrations.
func setupPostgres(t *testing.T, ctx context.Context) *gorm.DB {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "pairing",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Connect(ctx, database.Config{
		DatabaseURL: fmt.Sprintf("postgres://test:test@%s:%s/pairing?sslmode=disable", host, port.Port()),
		MaxIdle:     2,
		MaxOpen:     40,
		MaxLifetime: time.Minute,
		LogLevel:    gormlogger.Silent,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(ctx, db, zerolog.Nop()))
	return db
}

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t, ctx)
	repo := NewPostgresRepository(db)
	users := userrepo.NewPostgresRepository(db)

	require.NoError(t, users.UpsertProfile(ctx, identity.Profile{ID: "alice", Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, users.UpsertProfile(ctx, identity.Profile{ID: "alice", Name: "Alice L.", Email: "alice@example.com"}))

	created, err := repo.Create(ctx, &session.NewSession{Problem: "two-sum", Difficulty: "Easy", CallID: "session_1_a", HostID: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, session.StatusActive, created.Status)

	t.Run("find projects host profile", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Host)
		assert.Equal(t, "Alice L.", found.Host.Name)
		assert.Nil(t, found.Participant)

		byCall, err := repo.FindByCallID(ctx, "session_1_a")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byCall.ID)
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "not-a-uuid")
		assert.True(t, session.IsNotFound(err))
		_, err = repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, session.IsNotFound(err))
	})

	t.Run("duplicate call id is a store error", func(t *testing.T) {
		_, err := repo.Create(ctx, &session.NewSession{Problem: "p", Difficulty: "d", CallID: "session_1_a", HostID: "bob"})
		assert.True(t, session.IsStoreError(err))
	})

	t.Run("host cannot be participant", func(t *testing.T) {
		_, err := repo.SetParticipant(ctx, created.ID, "alice")
		assert.True(t, session.IsConflict(err))
	})

	t.Run("concurrent joins linearize", func(t *testing.T) {
		const joiners = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			wins      []string
			conflicts int
		)
		for i := 0; i < joiners; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				userID := fmt.Sprintf("user-%d", i)
				_, err := repo.SetParticipant(ctx, created.ID, userID)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					wins = append(wins, userID)
					return
				}
				if session.IsConflict(err) {
					conflicts++
					return
				}
				t.Errorf("unexpected error: %v", err)
			}(i)
		}
		wg.Wait()

		require.Len(t, wins, 1)
		assert.Equal(t, joiners-1, conflicts)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, wins[0], found.ParticipantID)
	})

	t.Run("status guarded by participant", func(t *testing.T) {
		_, err := repo.SetStatus(ctx, created.ID, session.StatusCompleted)
		assert.True(t, session.IsInvalidState(err))
	})

	t.Run("end and list", func(t *testing.T) {
		solo, err := repo.Create(ctx, &session.NewSession{Problem: "lru", Difficulty: "Medium", CallID: "session_2_b", HostID: "alice"})
		require.NoError(t, err)

		ended, err := repo.SetStatus(ctx, solo.ID, session.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, session.StatusCompleted, ended.Status)

		active, err := repo.FindActive(ctx, 20)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, created.ID, active[0].ID)

		mine, err := repo.FindRecentFor(ctx, "alice", 20)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, solo.ID, mine[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		temp, err := repo.Create(ctx, &session.NewSession{Problem: "p", Difficulty: "d", CallID: "session_3_c", HostID: "carol"})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, temp.ID))
		assert.True(t, session.IsNotFound(repo.Delete(ctx, temp.ID)))
	})
}

package identity

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"
)

// Directory persists profiles so session projections can resolve names.
type Directory interface {
	UpsertProfile(ctx context.Context, profile Profile) error
}

// ChatDirectory registers users with the chat provider before they are
// added to channels.
type ChatDirectory interface {
	UpsertUser(ctx context.Context, profile Profile) error
}

// Syncer mirrors authenticated principals into the user directory and the chat
// provider. Profiles already mirrored by this process are skipped.
type Syncer interface {
	Sync(ctx context.Context, principal Principal) error
}

type syncer struct {
	directory Directory
	chat      ChatDirectory
	seen      *lru.Cache
	log       zerolog.Logger
}

// NewSyncer creates a Syncer remembering up to cacheSize profiles.
func NewSyncer(directory Directory, chat ChatDirectory, cacheSize int, log zerolog.Logger) (Syncer, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create identity cache: %w", err)
	}
	return &syncer{
		directory: directory,
		chat:      chat,
		seen:      cache,
		log:       log.With().Str("component", "identity-syncer").Logger(),
	}, nil
}

func (s *syncer) Sync(ctx context.Context, principal Principal) error {
	if !principal.Valid() {
		return fmt.Errorf("principal has no id")
	}
	profile := principal.Profile()
	if cached, ok := s.seen.Get(profile.ID); ok && cached.(Profile) == profile {
		return nil
	}

	if err := s.directory.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ID, err)
	}
	if s.chat != nil {
		if err := s.chat.UpsertUser(ctx, profile); err != nil {
			return fmt.Errorf("upsert chat user %s: %w", profile.ID, err)
		}
	}

	s.seen.Add(profile.ID, profile)
	s.log.Debug().Str("user_id", profile.ID).Msg("principal synced")
	return nil
}

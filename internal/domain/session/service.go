package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/utils/idgen"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

const (
	defaultListLimit        = 20
	defaultProvisionTimeout = 10 * time.Second
)

// Service runs the session lifecycle operations.
type Service interface {
	CreateSession(ctx context.Context, principal identity.Principal, req CreateSessionRequest) (*Session, error)
	ListActiveSessions(ctx context.Context) ([]*Session, error)
	ListMySessions(ctx context.Context, principal identity.Principal) ([]*Session, error)
	GetSession(ctx context.Context, principal identity.Principal, id string) (*Session, error)
	JoinSession(ctx context.Context, principal identity.Principal, id string) (*Session, error)
	EndSession(ctx context.Context, principal identity.Principal, id string) (*Session, error)
	IssueCredentials(ctx context.Context, principal identity.Principal, id string) (*Credentials, error)
}

// Options tunes the service.
type Options struct {
	// ProvisionTimeout bounds every video and chat call.
	ProvisionTimeout time.Duration
	// ListLimit caps list results.
	ListLimit int
	// VideoURL and the chat settings are returned with credentials.
	VideoURL        string
	ChatAPIKey      string
	ChatChannelType string
}

type service struct {
	repo      Repository
	gateway   Gateway
	publisher EventPublisher
	recorder  Recorder
	opts      Options
	now       func() time.Time
	tracer    trace.Tracer
	log       zerolog.Logger
}

// NewService creates a new session service. A nil publisher or recorder
// disables events or metrics.
func NewService(repo Repository, gateway Gateway, publisher EventPublisher, recorder Recorder, opts Options, log zerolog.Logger) Service {
	if opts.ProvisionTimeout <= 0 {
		opts.ProvisionTimeout = defaultProvisionTimeout
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &service{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		recorder:  recorder,
		opts:      opts,
		now:       time.Now,
		tracer:    otel.Tracer("pairing-api/session"),
		log:       log.With().Str("component", "session-service").Logger(),
	}
}

func (s *service) CreateSession(ctx context.Context, principal identity.Principal, req CreateSessionRequest) (_ *Session, err error) {
	ctx, span := s.tracer.Start(ctx, "session.create")
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	problem := strings.TrimSpace(req.Problem)
	difficulty := strings.TrimSpace(req.Difficulty)
	if problem == "" || difficulty == "" {
		return nil, domainError(ctx, platformerrors.ErrorTypeValidation, "problem and difficulty are required", "")
	}

	callID, err := idgen.GenerateCallID(s.now())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate call id")
	}
	span.SetAttributes(attribute.String("pairing.call_id", callID))

	var created *Session
	create := &saga{
		name:                "create-session",
		compensationTimeout: s.opts.ProvisionTimeout,
		recorder:            s.recorder,
		log:                 s.log.With().Str("call_id", callID).Str("host_id", principal.ID).Logger(),
		steps: []step{
			{
				name: "store.create",
				action: func(ctx context.Context) error {
					var err error
					created, err = s.repo.Create(ctx, &NewSession{
						Problem:    problem,
						Difficulty: difficulty,
						CallID:     callID,
						HostID:     principal.ID,
					})
					return err
				},
				compensate: func(ctx context.Context) error {
					return s.repo.Delete(ctx, created.ID)
				},
			},
			{
				name: "video.create",
				action: func(ctx context.Context) error {
					return s.provision(ctx, "video", "create_call", func(ctx context.Context) error {
						return s.gateway.Video.CreateCall(ctx, callID, principal.ID, CallMetadata{
							SessionID:  created.ID,
							Problem:    problem,
							Difficulty: difficulty,
						})
					})
				},
				compensate: func(ctx context.Context) error {
					return s.gateway.Video.DeleteCall(ctx, callID)
				},
				undoOnError: true,
			},
			{
				name: "chat.create",
				action: func(ctx context.Context) error {
					return s.provision(ctx, "chat", "create_channel", func(ctx context.Context) error {
						return s.gateway.Chat.CreateChannel(ctx, callID, principal.ID, []string{principal.ID})
					})
				},
				compensate: func(ctx context.Context) error {
					return s.gateway.Chat.DeleteChannel(ctx, callID)
				},
				undoOnError: true,
			},
		},
	}
	if err := create.run(ctx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("session_id", created.ID).
		Str("call_id", callID).
		Str("host_id", principal.ID).
		Msg("session created")
	s.emit(ctx, EventCreated, created, principal.ID)
	return created, nil
}

func (s *service) ListActiveSessions(ctx context.Context) ([]*Session, error) {
	return s.repo.FindActive(ctx, s.opts.ListLimit)
}

func (s *service) ListMySessions(ctx context.Context, principal identity.Principal) ([]*Session, error) {
	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	return s.repo.FindRecentFor(ctx, principal.ID, s.opts.ListLimit)
}

func (s *service) GetSession(ctx context.Context, principal identity.Principal, id string) (*Session, error) {
	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) JoinSession(ctx context.Context, principal identity.Principal, id string) (_ *Session, err error) {
	ctx, span := s.tracer.Start(ctx, "session.join", trace.WithAttributes(attribute.String("pairing.session_id", id)))
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, domainError(ctx, platformerrors.ErrorTypeInvalidState, "session is not active", id)
	}
	if sess.HostID == principal.ID {
		return nil, domainError(ctx, platformerrors.ErrorTypeForbidden, "host cannot join their own session", id)
	}
	if sess.HasParticipant() {
		return nil, domainError(ctx, platformerrors.ErrorTypeConflict, "session is full", id)
	}

	err = s.provision(ctx, "chat", "add_member", func(ctx context.Context) error {
		return s.gateway.Chat.AddMember(ctx, sess.CallID, principal.ID)
	})
	if err != nil {
		return nil, err
	}

	joined, err := s.repo.SetParticipant(ctx, sess.ID, principal.ID)
	if err != nil {
		if IsConflict(err) {
			s.recorder.RecordJoinConflict()
			s.log.Warn().
				Str("session_id", sess.ID).
				Str("call_id", sess.CallID).
				Str("user_id", principal.ID).
				Msg("join lost the race; chat membership left in place")
		}
		return nil, err
	}

	s.log.Info().
		Str("session_id", joined.ID).
		Str("participant_id", principal.ID).
		Msg("session joined")
	s.emit(ctx, EventJoined, joined, principal.ID)
	return joined, nil
}

func (s *service) EndSession(ctx context.Context, principal identity.Principal, id string) (_ *Session, err error) {
	ctx, span := s.tracer.Start(ctx, "session.end", trace.WithAttributes(attribute.String("pairing.session_id", id)))
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, domainError(ctx, platformerrors.ErrorTypeInvalidState, "session is not active", id)
	}
	if sess.HostID != principal.ID {
		return nil, domainError(ctx, platformerrors.ErrorTypeForbidden, "only the host can end the session", id)
	}
	if sess.HasParticipant() {
		return nil, domainError(ctx, platformerrors.ErrorTypeInvalidState, "cannot end a session with a participant", id)
	}

	ended, err := s.repo.SetStatus(ctx, sess.ID, StatusCompleted)
	if err != nil {
		return nil, err
	}

	// The status write is final; cleanup failures are left to the reconciler.
	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.provision(cleanupCtx, "video", "delete_call", func(ctx context.Context) error {
		return s.gateway.Video.DeleteCall(ctx, ended.CallID)
	}); err != nil {
		s.log.Error().Err(err).Str("session_id", ended.ID).Str("call_id", ended.CallID).Msg("failed to delete video call")
	}
	if err := s.provision(cleanupCtx, "chat", "delete_channel", func(ctx context.Context) error {
		return s.gateway.Chat.DeleteChannel(ctx, ended.CallID)
	}); err != nil {
		s.log.Error().Err(err).Str("session_id", ended.ID).Str("call_id", ended.CallID).Msg("failed to delete chat channel")
	}

	s.log.Info().Str("session_id", ended.ID).Msg("session ended")
	s.emit(ctx, EventEnded, ended, principal.ID)
	return ended, nil
}

func (s *service) IssueCredentials(ctx context.Context, principal identity.Principal, id string) (*Credentials, error) {
	if err := requirePrincipal(ctx, principal); err != nil {
		return nil, err
	}
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, domainError(ctx, platformerrors.ErrorTypeInvalidState, "session is not active", id)
	}
	if !sess.IsMember(principal.ID) {
		return nil, domainError(ctx, platformerrors.ErrorTypeForbidden, "only session members can receive credentials", id)
	}

	video, err := s.gateway.VideoTokens.IssueToken(principal, sess.CallID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to issue video token")
	}
	chat, err := s.gateway.ChatTokens.IssueToken(principal, sess.CallID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to issue chat token")
	}

	return &Credentials{
		SessionID:           sess.ID,
		CallID:              sess.CallID,
		VideoURL:            s.opts.VideoURL,
		VideoToken:          video.Value,
		VideoTokenExpiresAt: video.ExpiresAt,
		ChatAPIKey:          s.opts.ChatAPIKey,
		ChatChannelType:     s.opts.ChatChannelType,
		ChatToken:           chat.Value,
		ChatTokenExpiresAt:  chat.ExpiresAt,
	}, nil
}

// provision runs fn under the provisioning timeout and reports failures as
// EXTERNAL errors.
func (s *service) provision(ctx context.Context, resource, operation string, fn func(ctx context.Context) error) error {
	pctx, cancel := context.WithTimeout(ctx, s.opts.ProvisionTimeout)
	defer cancel()

	err := fn(pctx)
	if err == nil {
		return nil
	}

	message := fmt.Sprintf("%s %s failed", resource, operation)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(pctx.Err(), context.DeadlineExceeded) {
		message = fmt.Sprintf("%s %s timed out after %s", resource, operation, s.opts.ProvisionTimeout)
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, message, err, "",
		map[string]any{"resource": resource, "operation": operation})
}

func (s *service) emit(ctx context.Context, eventType EventType, sess *Session, actorID string) {
	s.recorder.RecordLifecycle(eventType)
	event := Event{
		Type:      eventType,
		SessionID: sess.ID,
		CallID:    sess.CallID,
		ActorID:   actorID,
		At:        s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(eventType)).Str("session_id", sess.ID).Msg("failed to publish session event")
	}
}

func requirePrincipal(ctx context.Context, principal identity.Principal) error {
	if !principal.Valid() {
		return domainError(ctx, platformerrors.ErrorTypeUnauthorized, "authenticated principal required", "")
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

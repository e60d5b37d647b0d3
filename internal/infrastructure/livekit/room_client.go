package livekit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/rs/zerolog"
	"github.com/twitchtv/twirp"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/metrics"
)

// roomService is the subset of the LiveKit room API used here.
type roomService interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
	ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
}

// RoomClient provisions one LiveKit room per pairing session.
type RoomClient struct {
	client       roomService
	emptyTimeout time.Duration
	log          zerolog.Logger
}

// NewRoomClient creates a new LiveKit room client.
func NewRoomClient(cfg *config.Config, log zerolog.Logger) *RoomClient {
	client := lksdk.NewRoomServiceClient(cfg.LiveKitWsURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret)
	return newRoomClient(client, cfg.LiveKitEmptyTimeout, log)
}

func newRoomClient(client roomService, emptyTimeout time.Duration, log zerolog.Logger) *RoomClient {
	return &RoomClient{
		client:       client,
		emptyTimeout: emptyTimeout,
		log:          log.With().Str("component", "livekit-rooms").Logger(),
	}
}

// roomMetadata is stored on the room so operators can trace it back.
type roomMetadata struct {
	session.CallMetadata
	CreatedBy string `json:"created_by"`
}

// CreateCall creates the room named callID. Creating an existing room
// returns it unchanged.
func (c *RoomClient) CreateCall(ctx context.Context, callID, createdBy string, metadata session.CallMetadata) (err error) {
	defer func() { metrics.RecordProvision("video", "create_call", err) }()

	raw, err := json.Marshal(roomMetadata{CallMetadata: metadata, CreatedBy: createdBy})
	if err != nil {
		return fmt.Errorf("encode room metadata: %w", err)
	}

	room, err := c.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:         callID,
		EmptyTimeout: uint32(c.emptyTimeout / time.Second),
		Metadata:     string(raw),
	})
	if err != nil {
		return fmt.Errorf("create room %s: %w", callID, err)
	}

	c.log.Debug().Str("call_id", callID).Str("room_sid", room.GetSid()).Msg("room created")
	return nil
}

// DeleteCall removes the room. A missing room is not an error.
func (c *RoomClient) DeleteCall(ctx context.Context, callID string) (err error) {
	defer func() { metrics.RecordProvision("video", "delete_call", err) }()

	_, err = c.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: callID})
	if err != nil {
		if isNotFound(err) {
			c.log.Debug().Str("call_id", callID).Msg("room already gone")
			return nil
		}
		return fmt.Errorf("delete room %s: %w", callID, err)
	}
	return nil
}

// RoomInfo contains basic room information.
type RoomInfo struct {
	Name            string
	NumParticipants int
	CreatedAt       time.Time
}

// ListRooms returns every room currently open on the LiveKit server.
func (c *RoomClient) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	resp, err := c.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]RoomInfo, 0, len(resp.GetRooms()))
	for _, room := range resp.GetRooms() {
		rooms = append(rooms, RoomInfo{
			Name:            room.GetName(),
			NumParticipants: int(room.GetNumParticipants()),
			CreatedAt:       time.Unix(room.GetCreationTime(), 0).UTC(),
		})
	}
	return rooms, nil
}

func isNotFound(err error) bool {
	var twerr twirp.Error
	return errors.As(err, &twerr) && twerr.Code() == twirp.NotFound
}

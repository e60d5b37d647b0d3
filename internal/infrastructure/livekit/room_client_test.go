package livekit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/livekit/protocol/livekit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twitchtv/twirp"

	"jan-server/services/pairing-api/internal/domain/session"
)

type fakeRoomService struct {
	CreateRoomFunc func(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	DeleteRoomFunc func(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
	ListRoomsFunc  func(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
}

func (f *fakeRoomService) CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	return f.CreateRoomFunc(ctx, req)
}

func (f *fakeRoomService) DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	return f.DeleteRoomFunc(ctx, req)
}

func (f *fakeRoomService) ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error) {
	return f.ListRoomsFunc(ctx, req)
}

func TestCreateCallTagsRoomWithSession(t *testing.T) {
	var got *livekit.CreateRoomRequest
	client := newRoomClient(&fakeRoomService{
		CreateRoomFunc: func(_ context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
			got = req
			return &livekit.Room{Name: req.Name, Sid: "RM_1"}, nil
		},
	}, 5*time.Minute, zerolog.Nop())

	err := client.CreateCall(context.Background(), "session_1_a", "alice", session.CallMetadata{
		SessionID: "sess-1", Problem: "two-sum", Difficulty: "Easy",
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "session_1_a", got.Name)
	assert.Equal(t, uint32(300), got.EmptyTimeout)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.Metadata), &meta))
	assert.Equal(t, "sess-1", meta["session_id"])
	assert.Equal(t, "alice", meta["created_by"])
	assert.Equal(t, "two-sum", meta["problem"])
}

func TestCreateCallPropagatesFailure(t *testing.T) {
	client := newRoomClient(&fakeRoomService{
		CreateRoomFunc: func(context.Context, *livekit.CreateRoomRequest) (*livekit.Room, error) {
			return nil, twirp.NewError(twirp.Unavailable, "livekit down")
		},
	}, time.Minute, zerolog.Nop())

	err := client.CreateCall(context.Background(), "session_1_a", "alice", session.CallMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_1_a")
}

func TestDeleteCallIsIdempotent(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "deleted", err: nil},
		{name: "already gone", err: twirp.NotFoundError("room not found")},
		{name: "server error", err: twirp.InternalError("boom"), wantErr: true},
		{name: "transport error", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var room string
			client := newRoomClient(&fakeRoomService{
				DeleteRoomFunc: func(_ context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
					room = req.Room
					if tt.err != nil {
						return nil, tt.err
					}
					return &livekit.DeleteRoomResponse{}, nil
				},
			}, time.Minute, zerolog.Nop())

			err := client.DeleteCall(context.Background(), "session_1_a")
			assert.Equal(t, "session_1_a", room)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListRooms(t *testing.T) {
	client := newRoomClient(&fakeRoomService{
		ListRoomsFunc: func(context.Context, *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error) {
			return &livekit.ListRoomsResponse{Rooms: []*livekit.Room{
				{Name: "session_1_a", NumParticipants: 2, CreationTime: 1700000000},
				{Name: "other", NumParticipants: 0, CreationTime: 1700000100},
			}}, nil
		},
	}, time.Minute, zerolog.Nop())

	rooms, err := client.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, RoomInfo{Name: "session_1_a", NumParticipants: 2, CreatedAt: time.Unix(1700000000, 0).UTC()}, rooms[0])
	assert.Equal(t, "other", rooms[1].Name)
}

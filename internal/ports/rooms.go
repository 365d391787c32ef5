package ports

import (
	"context"
	"errors"
	"time"
)

// RoomStatus is the lobby lifecycle state of a room.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// RoomPlayer is a seat in a room listing.
type RoomPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot"`
}

// GameRoom is a joinable table in the lobby.
type GameRoom struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Players    []RoomPlayer `json:"players"`
	MaxPlayers int          `json:"max_players"`
	IsPrivate  bool         `json:"is_private"`
	Status     RoomStatus   `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

var (
	ErrNotConnected = errors.New("room service is not connected")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomClosed   = errors.New("room is no longer joinable")
	ErrBadJoinToken = errors.New("join token rejected")
)

// RoomService is the multiplayer lobby boundary. The production backing is
// a matchmaking server; tests and the offline client use the mock.
type RoomService interface {
	// Connect establishes the lobby session for a player.
	Connect(ctx context.Context, playerID string) error

	// Disconnect tears the session down. Safe to call when not connected.
	Disconnect(ctx context.Context) error

	// Connected reports whether a lobby session is live.
	Connected() bool

	// ListRooms returns the joinable rooms visible to the session.
	ListRooms(ctx context.Context) ([]GameRoom, error)

	// CreateRoom opens a room owned by the session player. Private rooms
	// require a join token from the owner to enter.
	CreateRoom(ctx context.Context, name string, maxPlayers int, private bool) (GameRoom, error)

	// JoinRoom seats the session player in the identified room. joinToken
	// is required for private rooms and ignored otherwise.
	JoinRoom(ctx context.Context, roomID, joinToken string) (GameRoom, error)

	// LeaveRoom vacates the session player's seat.
	LeaveRoom(ctx context.Context, roomID string) error
}

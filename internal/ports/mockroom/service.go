package mockroom

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"genso/internal/app"
	"genso/internal/ports"
)

// Service is an in-memory RoomService with simulated network latency.
// It stands in for the matchmaking backend during offline play and tests.
type Service struct {
	mu        sync.Mutex
	playerID  string
	connected bool
	rooms     map[string]*ports.GameRoom

	tokens        *app.RoomTokenService
	listLatency   time.Duration
	actionLatency time.Duration
}

var _ ports.RoomService = (*Service)(nil)

// NewService builds the mock lobby pre-seeded with a couple of public
// rooms. tokens may be nil if no private rooms will be created.
func NewService(tokens *app.RoomTokenService, listLatency, actionLatency time.Duration) *Service {
	s := &Service{
		rooms:         make(map[string]*ports.GameRoom),
		tokens:        tokens,
		listLatency:   listLatency,
		actionLatency: actionLatency,
	}
	s.seed("Beginners Welcome", 5, ports.RoomPlayer{ID: "bot-curie", Name: "Curie", IsBot: true})
	s.seed("Expert Table", 2, ports.RoomPlayer{ID: "bot-mendeleev", Name: "Mendeleev", IsBot: true})
	return s
}

func (s *Service) seed(name string, maxPlayers int, players ...ports.RoomPlayer) {
	id := uuid.NewString()
	s.rooms[id] = &ports.GameRoom{
		ID:         id,
		Name:       name,
		Players:    players,
		MaxPlayers: maxPlayers,
		Status:     ports.RoomWaiting,
		CreatedAt:  time.Now(),
	}
}

// sleep simulates the network round trip, aborting early on ctx.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) Connect(ctx context.Context, playerID string) error {
	if err := sleep(ctx, s.actionLatency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerID = playerID
	s.connected = true
	return nil
}

func (s *Service) Disconnect(ctx context.Context) error {
	if err := sleep(ctx, s.actionLatency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.playerID = ""
	return nil
}

func (s *Service) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Service) ListRooms(ctx context.Context) ([]ports.GameRoom, error) {
	if err := sleep(ctx, s.listLatency); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ports.ErrNotConnected
	}

	rooms := make([]ports.GameRoom, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, *room)
	}
	return rooms, nil
}

func (s *Service) CreateRoom(ctx context.Context, name string, maxPlayers int, private bool) (ports.GameRoom, error) {
	if err := sleep(ctx, s.actionLatency); err != nil {
		return ports.GameRoom{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ports.GameRoom{}, ports.ErrNotConnected
	}

	room := &ports.GameRoom{
		ID:         uuid.NewString(),
		Name:       name,
		Players:    []ports.RoomPlayer{{ID: s.playerID, Name: s.playerID}},
		MaxPlayers: maxPlayers,
		IsPrivate:  private,
		Status:     ports.RoomWaiting,
		CreatedAt:  time.Now(),
	}
	s.rooms[room.ID] = room
	return *room, nil
}

// JoinTokenFor mints a join token admitting the session player into a
// private room they should share with invitees.
func (s *Service) JoinTokenFor(roomID, inviteeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return "", ports.ErrNotConnected
	}
	if s.tokens == nil {
		return "", ports.ErrBadJoinToken
	}
	return s.tokens.GenerateJoinToken(inviteeID, roomID)
}

func (s *Service) JoinRoom(ctx context.Context, roomID, joinToken string) (ports.GameRoom, error) {
	if err := sleep(ctx, s.actionLatency); err != nil {
		return ports.GameRoom{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ports.GameRoom{}, ports.ErrNotConnected
	}

	room, ok := s.rooms[roomID]
	if !ok {
		// Unknown IDs get a fresh room, mirroring quick-join semantics.
		room = &ports.GameRoom{
			ID:         roomID,
			Name:       "Quick Match",
			MaxPlayers: app.MaxPlayers,
			Status:     ports.RoomWaiting,
			CreatedAt:  time.Now(),
		}
		s.rooms[roomID] = room
	}

	for _, pl := range room.Players {
		if pl.ID == s.playerID {
			return *room, nil
		}
	}
	if room.Status != ports.RoomWaiting {
		return ports.GameRoom{}, ports.ErrRoomClosed
	}
	if room.IsPrivate {
		if s.tokens == nil {
			return ports.GameRoom{}, ports.ErrBadJoinToken
		}
		subject, err := s.tokens.VerifyJoinToken(joinToken, roomID)
		if err != nil || subject != s.playerID {
			return ports.GameRoom{}, ports.ErrBadJoinToken
		}
	}

	if len(room.Players) >= room.MaxPlayers {
		return ports.GameRoom{}, ports.ErrRoomFull
	}

	room.Players = append(room.Players, ports.RoomPlayer{ID: s.playerID, Name: s.playerID})
	if len(room.Players) == room.MaxPlayers {
		room.Status = ports.RoomPlaying
	}
	return *room, nil
}

func (s *Service) LeaveRoom(ctx context.Context, roomID string) error {
	if err := sleep(ctx, s.actionLatency); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ports.ErrNotConnected
	}

	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	for i, pl := range room.Players {
		if pl.ID == s.playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	if room.Status == ports.RoomPlaying && len(room.Players) < room.MaxPlayers {
		room.Status = ports.RoomWaiting
	}
	return nil
}

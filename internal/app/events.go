package app

import "genso/internal/domain"

// EventKind identifies emitted game events for adapter dispatch.
type EventKind string

const (
	EventGameStarted   EventKind = "game_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventCardDrawn     EventKind = "card_drawn"
	EventCardDiscarded EventKind = "card_discarded"
	EventGameEnded     EventKind = "game_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type GameStartedPayload struct {
	Phase             domain.Phase
	PlayerIDs         []string
	FirstTurnPlayerID string
}

type HandDealtPayload struct {
	PlayerID string
	Hand     []domain.Card
}

type CardDrawnPayload struct {
	PlayerID    string
	FromDiscard bool
	Card        domain.Card
}

type CardDiscardedPayload struct {
	PlayerID        string
	Card            domain.Card
	NextPlayerIndex int
	Turn            int
}

type GameEndedPayload struct {
	WinnerID   string
	WinnerName string
	Matches    []domain.HandType
	Total      int
}

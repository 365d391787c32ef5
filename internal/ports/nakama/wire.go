package nakama

import "genso/internal/domain"

// matchLabel is the JSON label Nakama indexes for match listing queries.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// playerState is one seat in a match snapshot.
type playerState struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	IsBot       bool   `json:"is_bot"`
	DisplayName string `json:"display_name"`
	CardsInHand int    `json:"cards_in_hand"`
	Score       int    `json:"score"`
}

// matchSnapshot is broadcast whenever seating changes.
type matchSnapshot struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Tick      int64         `json:"tick"`
	Players   []playerState `json:"players"`
}

// Client requests.
type drawRequest struct {
	FromDiscard bool `json:"from_discard"`
}

type discardRequest struct {
	CardIndex int `json:"card_index"`
}

// Server events.
type gameStartedEvent struct {
	Phase             string   `json:"phase"`
	PlayerIDs         []string `json:"player_ids"`
	FirstTurnPlayerID string   `json:"first_turn_player_id"`
}

type handDealtEvent struct {
	PlayerID string        `json:"player_id"`
	Hand     []domain.Card `json:"hand"`
}

type cardDrawnEvent struct {
	PlayerID    string       `json:"player_id"`
	FromDiscard bool         `json:"from_discard"`
	Card        *domain.Card `json:"card,omitempty"`
}

type cardDiscardedEvent struct {
	PlayerID        string      `json:"player_id"`
	Card            domain.Card `json:"card"`
	NextPlayerIndex int         `json:"next_player_index"`
	Turn            int         `json:"turn"`
}

type gameEndedEvent struct {
	WinnerID   string            `json:"winner_id"`
	WinnerName string            `json:"winner_name"`
	Matches    []domain.HandType `json:"matches"`
	Total      int               `json:"total"`
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

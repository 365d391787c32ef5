package main

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"genso/internal/app"
	"genso/internal/bot"
	"genso/internal/domain"
)

func cardsOf(t *testing.T, symbols ...string) []domain.Card {
	t.Helper()
	copies := make(map[string]int)
	hand := make([]domain.Card, 0, len(symbols))
	for _, sym := range symbols {
		el, ok := domain.ElementBySymbol(sym)
		if !ok {
			t.Fatalf("unknown element symbol %q", sym)
		}
		hand = append(hand, domain.Card{ID: fmt.Sprintf("%s-%d", sym, copies[sym]), Element: el})
		copies[sym]++
	}
	return hand
}

// An empty deck with a discard top the bot does not want leaves no legal
// draw. The turn must surface that instead of spinning.
func TestPlayBotTurnReportsDeadEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	svc := app.NewService(rng)
	agent := bot.NewAgent("bot-curie", "Curie", rng)

	game := &domain.Game{
		Players: []*domain.Player{
			{ID: "human", Name: "You", Hand: cardsOf(t, "H", "He", "Li"), IsHuman: true},
			{ID: "bot-curie", Name: "Curie", Hand: cardsOf(t, "C", "N", "O")},
		},
		DiscardPile:        cardsOf(t, "Ca"),
		Phase:              domain.PhasePlaying,
		CurrentPlayerIndex: 1,
		Turn:               3,
	}

	err := playBotTurn(svc, game, agent)
	if !errors.Is(err, app.ErrEmptyPile) {
		t.Fatalf("playBotTurn() error = %v, want %v", err, app.ErrEmptyPile)
	}
	if len(game.Players[1].Hand) != 3 || len(game.DiscardPile) != 1 {
		t.Error("a dead-end turn must not mutate the game")
	}
}

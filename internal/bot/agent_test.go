package bot

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"genso/internal/app"
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

func TestChooseDrawPrefersHeldElement(t *testing.T) {
	agent := NewAgent("bot", "Bot", rand.New(rand.NewSource(1)))
	hand := cardsOf(t, "H", "He", "C")

	if !agent.ChooseDraw(hand, cardsOf(t, "He")[0]) {
		t.Error("should take a discard matching a held element")
	}
	if agent.ChooseDraw(hand, cardsOf(t, "Ne")[0]) {
		t.Error("should prefer the deck for an unheld element")
	}
}

func TestChooseDiscardShedsHighestSingle(t *testing.T) {
	agent := NewAgent("bot", "Bot", rand.New(rand.NewSource(1)))

	// Singles are He(2), C(6), Ca(20); Ca must go.
	hand := cardsOf(t, "H", "H", "He", "C", "Ca")
	if idx := agent.ChooseDiscard(hand); hand[idx].Element.Symbol != "Ca" {
		t.Errorf("discarded %s, want Ca", hand[idx].Element.Symbol)
	}

	// No singles: any index is legal, but it must be in range.
	paired := cardsOf(t, "H", "H", "He", "He")
	if idx := agent.ChooseDiscard(paired); idx < 0 || idx >= len(paired) {
		t.Errorf("discard index %d out of range", idx)
	}
}

func TestPlayTurnCompletesDrawAndDiscard(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	svc := app.NewService(rng)
	agent := NewAgent("ai", "AI Opponent", rng)

	game, _, err := svc.NewGame(nil)
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}

	// Hand the bot the turn.
	game.CurrentPlayerIndex = 1

	events, err := agent.PlayTurn(svc, game)
	if err != nil {
		t.Fatalf("PlayTurn() error: %v", err)
	}
	if len(events) < 2 {
		t.Fatalf("got %d events, want draw and discard", len(events))
	}
	if events[0].Kind != app.EventCardDrawn {
		t.Errorf("first event = %s, want %s", events[0].Kind, app.EventCardDrawn)
	}
	if events[1].Kind != app.EventCardDiscarded {
		t.Errorf("second event = %s, want %s", events[1].Kind, app.EventCardDiscarded)
	}
	if game.Phase == domain.PhasePlaying && len(game.Players[1].Hand) != domain.HandSize {
		t.Errorf("bot hand = %d cards after its turn, want %d", len(game.Players[1].Hand), domain.HandSize)
	}
	if game.Phase == domain.PhasePlaying && game.CurrentPlayerIndex != 0 {
		t.Errorf("turn should return to seat 0, at %d", game.CurrentPlayerIndex)
	}
}

// Identity lookups happen from every match loop goroutine at once.
func TestIdentityLookupIsConcurrencySafe(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				ident := PickIdentity(rng)
				if _, ok := IdentityByID(ident.ID); !ok {
					t.Errorf("identity %s not found by ID", ident.ID)
					return
				}
				IdentityByID("not-a-bot")
			}
		}(int64(g))
	}
	wg.Wait()
}

func TestPickIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ident := PickIdentity(rng)
	if ident.ID == "" || ident.DisplayName == "" {
		t.Errorf("empty identity %+v", ident)
	}
	if _, ok := IdentityByID(ident.ID); !ok {
		t.Errorf("identity %s not found by ID", ident.ID)
	}
	if _, ok := IdentityByID("not-a-bot"); ok {
		t.Error("unknown ID should not resolve")
	}
}

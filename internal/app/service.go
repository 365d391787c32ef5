package app

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"genso/internal/domain"
)

// Service contains the game use-cases operating on domain state. All
// methods are turn-serialized by the caller; the service is the sole
// mutator of a Game.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players for one deck")
	ErrNotPlaying     = errors.New("game not in playing phase")
	ErrAlreadyDrawn   = errors.New("already drew a card this turn")
	ErrMustDrawFirst  = errors.New("must draw a card before discarding")
	ErrEmptyPile      = errors.New("no card available to draw")
	ErrCardNotInHand  = errors.New("card index out of range")
)

// PlayerSpec describes a participant for NewGame. Score carries a
// returning player's running total into the next game.
type PlayerSpec struct {
	ID      string
	Name    string
	IsHuman bool
	Score   int
}

// DefaultMatchup is the single-human-versus-AI seating used when NewGame
// receives no specs.
func DefaultMatchup() []PlayerSpec {
	return []PlayerSpec{
		{ID: "human", Name: "You", IsHuman: true},
		{ID: "ai", Name: "AI Opponent", IsHuman: false},
	}
}

// NewGame builds a fresh game: shuffled deck, 13-card sorted hands in seat
// order, the last deck card seeding the discard pile, first player to act.
// A deal that cannot be completed aborts with an error rather than dealing
// short hands.
func (s *Service) NewGame(specs []PlayerSpec) (*domain.Game, []Event, error) {
	if len(specs) == 0 {
		specs = DefaultMatchup()
	}
	if len(specs) < MinPlayers {
		return nil, nil, ErrTooFewPlayers
	}
	if len(specs) > MaxPlayers {
		return nil, nil, ErrTooManyPlayers
	}

	deck := domain.NewDeck(s.rng)
	hands, live, discard, err := domain.Deal(deck, len(specs))
	if err != nil {
		return nil, nil, err
	}

	players := make([]*domain.Player, len(specs))
	for i, spec := range specs {
		id := spec.ID
		if id == "" {
			id = uuid.NewString()
		}
		players[i] = &domain.Player{
			ID:      id,
			Name:    spec.Name,
			Hand:    hands[i],
			IsHuman: spec.IsHuman,
			Score:   spec.Score,
		}
	}

	game := &domain.Game{
		Players:     players,
		Deck:        live,
		DiscardPile: discard,
		Phase:       domain.PhasePlaying,
		Turn:        1,
	}

	events := make([]Event, 0, len(players)+1)
	ids := make([]string, len(players))
	for i, pl := range players {
		ids[i] = pl.ID
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: pl.ID, Hand: pl.Hand},
			Recipients: []string{pl.ID},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Phase:             game.Phase,
			PlayerIDs:         ids,
			FirstTurnPlayerID: players[0].ID,
		},
	})

	return game, events, nil
}

// Draw moves the top card of the chosen pile into the acting player's
// hand. Drawing from an empty discard pile falls back to the deck.
// Precondition violations reject without mutating state.
func (s *Service) Draw(game *domain.Game, fromDiscard bool) ([]Event, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if game.HasDrawnThisTurn {
		return nil, ErrAlreadyDrawn
	}

	var card domain.Card
	switch {
	case fromDiscard && len(game.DiscardPile) > 0:
		card = game.DiscardPile[len(game.DiscardPile)-1]
		game.DiscardPile = game.DiscardPile[:len(game.DiscardPile)-1]
	case len(game.Deck) > 0:
		fromDiscard = false
		card = game.Deck[len(game.Deck)-1]
		game.Deck = game.Deck[:len(game.Deck)-1]
	default:
		return nil, ErrEmptyPile
	}

	player := game.CurrentPlayer()
	player.Hand = append(player.Hand, card)
	domain.SortHand(player.Hand)
	game.HasDrawnThisTurn = true

	ev := Event{
		Kind:    EventCardDrawn,
		Payload: CardDrawnPayload{PlayerID: player.ID, FromDiscard: fromDiscard, Card: card},
	}
	if !fromDiscard {
		// Deck draws are private; discard draws were already visible.
		ev.Recipients = []string{player.ID}
	}
	return []Event{ev}, nil
}

// Discard moves the indexed card from the acting player's 14-card hand to
// the discard pile, then win-checks the remaining 13 cards. On a win the
// game ends and the hand total is added to the player's score; otherwise
// the turn passes to the next player, bumping the turn counter on wrap.
func (s *Service) Discard(game *domain.Game, cardIndex int) ([]Event, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if !game.HasDrawnThisTurn {
		return nil, ErrMustDrawFirst
	}
	player := game.CurrentPlayer()
	if cardIndex < 0 || cardIndex >= len(player.Hand) {
		return nil, ErrCardNotInHand
	}

	card := player.Hand[cardIndex]
	player.Hand = append(player.Hand[:cardIndex], player.Hand[cardIndex+1:]...)
	game.DiscardPile = append(game.DiscardPile, card)
	game.HasDrawnThisTurn = false

	matches := domain.Evaluate(player.Hand)
	total := domain.TotalScore(matches)
	if len(matches) > 0 && total >= domain.WinThreshold {
		game.Phase = domain.PhaseEnded
		game.Winner = player.ID
		player.Score += total

		return []Event{
			{
				Kind:    EventCardDiscarded,
				Payload: CardDiscardedPayload{PlayerID: player.ID, Card: card, NextPlayerIndex: game.CurrentPlayerIndex, Turn: game.Turn},
			},
			{
				Kind: EventGameEnded,
				Payload: GameEndedPayload{
					WinnerID:   player.ID,
					WinnerName: player.Name,
					Matches:    matches,
					Total:      total,
				},
			},
		}, nil
	}

	game.CurrentPlayerIndex = (game.CurrentPlayerIndex + 1) % len(game.Players)
	if game.CurrentPlayerIndex == 0 {
		game.Turn++
	}

	return []Event{
		{
			Kind:    EventCardDiscarded,
			Payload: CardDiscardedPayload{PlayerID: player.ID, Card: card, NextPlayerIndex: game.CurrentPlayerIndex, Turn: game.Turn},
		},
	}, nil
}

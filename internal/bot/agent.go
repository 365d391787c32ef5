package bot

import (
	"math/rand"
	"time"

	"genso/internal/app"
	"genso/internal/domain"
)

// Agent is the heuristic opponent. It plays greedily toward duplicate
// elements and sheds high lone cards, with no lookahead.
type Agent struct {
	ID   string
	Name string
	rng  *rand.Rand
}

func NewAgent(id, name string, rng *rand.Rand) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{ID: id, Name: name, rng: rng}
}

// ChooseDraw decides the draw source. The discard top is taken whenever
// the hand already holds a copy of its element, since that grows a pair
// toward a triple or quad. Otherwise the unseen deck card is preferred.
func (a *Agent) ChooseDraw(hand []domain.Card, discardTop domain.Card) bool {
	for _, c := range hand {
		if c.Element.AtomicNumber == discardTop.Element.AtomicNumber {
			return true
		}
	}
	return false
}

// ChooseDiscard picks the card to shed from the post-draw hand: the
// highest-atomic element held as a single copy. A hand with no singles
// sheds a uniformly random card.
func (a *Agent) ChooseDiscard(hand []domain.Card) int {
	counts := make(map[int]int, len(hand))
	for _, c := range hand {
		counts[c.Element.AtomicNumber]++
	}

	best := -1
	for i, c := range hand {
		if counts[c.Element.AtomicNumber] != 1 {
			continue
		}
		if best == -1 || c.Element.AtomicNumber > hand[best].Element.AtomicNumber {
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	return a.rng.Intn(len(hand))
}

// PlayTurn runs one full bot turn against the service: pick a draw
// source, draw, then re-evaluate the 14-card hand and discard. The
// discard choice is made after the draw so the drawn card is considered.
func (a *Agent) PlayTurn(svc *app.Service, game *domain.Game) ([]app.Event, error) {
	fromDiscard := false
	if top, ok := game.DiscardTop(); ok {
		fromDiscard = a.ChooseDraw(game.CurrentPlayer().Hand, top)
	}

	events, err := svc.Draw(game, fromDiscard)
	if err != nil {
		return nil, err
	}

	idx := a.ChooseDiscard(game.CurrentPlayer().Hand)
	discardEvents, err := svc.Discard(game, idx)
	if err != nil {
		return nil, err
	}
	return append(events, discardEvents...), nil
}

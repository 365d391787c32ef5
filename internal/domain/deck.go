package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// CopiesPerElement is the number of identical cards per element in a deck.
const CopiesPerElement = 4

// HandSize is the number of cards a player holds between turns.
const HandSize = 13

// NewDeck returns a freshly shuffled deck holding CopiesPerElement cards
// for every reference element. Card IDs are "<symbol>-<copy>" and every
// permutation is equally likely.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, len(Elements)*CopiesPerElement)
	for _, el := range Elements {
		for i := 0; i < CopiesPerElement; i++ {
			deck = append(deck, Card{
				ID:      fmt.Sprintf("%s-%d", el.Symbol, i),
				Element: el,
			})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// SortHand orders a hand by ascending atomic number, stable for equal
// elements. Display ordering only; membership is untouched.
func SortHand(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Element.AtomicNumber < cards[j].Element.AtomicNumber
	})
}

// Deal slices the deck into playerCount sorted 13-card hands in deck
// order, then moves the last remaining card onto a new discard pile.
// The returned live deck excludes the dealt and discarded cards.
func Deal(deck []Card, playerCount int) (hands [][]Card, live []Card, discard []Card, err error) {
	need := playerCount*HandSize + 1
	if len(deck) < need {
		return nil, nil, nil, fmt.Errorf("deck holds %d cards, need %d for %d players", len(deck), need, playerCount)
	}

	hands = make([][]Card, playerCount)
	for i := 0; i < playerCount; i++ {
		hand := append([]Card{}, deck[i*HandSize:(i+1)*HandSize]...)
		SortHand(hand)
		hands[i] = hand
	}

	live = append([]Card{}, deck[playerCount*HandSize:]...)
	discard = []Card{live[len(live)-1]}
	live = live[:len(live)-1]
	return hands, live, discard, nil
}

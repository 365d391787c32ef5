package domain

import (
	"fmt"
	"sort"
	"strings"
)

// HandType is a named scoring pattern detected in a hand, together with
// the cards that satisfy it. Patterns are not mutually exclusive; a hand
// scores the sum of every detected pattern.
type HandType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Cards       []Card `json:"cards,omitempty"`
}

// Pattern names reported by Evaluate.
const (
	HandFourOfAKind   = "Four of a Kind"
	HandThreeOfAKind  = "Three of a Kind"
	HandOnePair       = "One Pair"
	HandFullHouse     = "Full House"
	HandStraightFive  = "Atomic Straight 5"
	HandStraightThree = "Atomic Straight 3"
	HandSamePeriod    = "Same Period Trio"
	HandSameGroup     = "Same Group Trio"
	HandAllDistinct   = "All Distinct"
	HandHighAtomics   = "High Atomics Only"
)

// WinThreshold is the minimum total score a 13-card hand needs to win.
const WinThreshold = 6

// HighAtomicThreshold is the minimum atomic number for the High Atomics
// Only pattern.
const HighAtomicThreshold = 10

type elementGroup struct {
	element Element
	cards   []Card
}

// Evaluate detects every scoring pattern in the hand. It is a pure
// function: permuting the input yields the same matches in the same
// order. Any hand size is accepted; a hand with no patterns returns an
// empty slice.
func Evaluate(hand []Card) []HandType {
	sorted := append([]Card{}, hand...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Element.AtomicNumber != sorted[j].Element.AtomicNumber {
			return sorted[i].Element.AtomicNumber < sorted[j].Element.AtomicNumber
		}
		return sorted[i].ID < sorted[j].ID
	})

	groups := groupByElement(sorted)

	var matches []HandType
	matches = append(matches, matchOfAKind(groups)...)
	if fh, ok := matchFullHouse(groups); ok {
		matches = append(matches, fh)
	}
	if st, ok := matchStraight(groups, 5, HandStraightFive, 6); ok {
		matches = append(matches, st)
	}
	if st, ok := matchStraight(groups, 3, HandStraightThree, 3); ok {
		matches = append(matches, st)
	}
	matches = append(matches, matchSameRow(groups, true)...)
	matches = append(matches, matchSameRow(groups, false)...)
	if len(groups) == HandSize {
		matches = append(matches, HandType{
			Name:        HandAllDistinct,
			Description: "13 distinct elements",
			Points:      20,
			Cards:       sorted,
		})
	}
	if allHighAtomic(sorted) {
		matches = append(matches, HandType{
			Name:        HandHighAtomics,
			Description: fmt.Sprintf("every card has atomic number %d or higher", HighAtomicThreshold),
			Points:      20,
			Cards:       sorted,
		})
	}
	return matches
}

// TotalScore sums the points of every detected pattern.
func TotalScore(matches []HandType) int {
	total := 0
	for _, m := range matches {
		total += m.Points
	}
	return total
}

// CanWin reports whether the hand matches at least one pattern. The turn
// machine additionally requires TotalScore >= WinThreshold to end a game.
func CanWin(hand []Card) bool {
	return len(Evaluate(hand)) > 0
}

// groupByElement buckets a sorted hand per element, preserving ascending
// atomic-number order across buckets.
func groupByElement(sorted []Card) []elementGroup {
	var groups []elementGroup
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].element.Symbol == c.Element.Symbol {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, elementGroup{element: c.Element, cards: []Card{c}})
	}
	return groups
}

func matchOfAKind(groups []elementGroup) []HandType {
	var matches []HandType
	for _, g := range groups {
		switch len(g.cards) {
		case 4:
			matches = append(matches, HandType{
				Name:        HandFourOfAKind,
				Description: fmt.Sprintf("four copies of %s", g.element.Symbol),
				Points:      6,
				Cards:       g.cards,
			})
		case 3:
			matches = append(matches, HandType{
				Name:        HandThreeOfAKind,
				Description: fmt.Sprintf("three copies of %s", g.element.Symbol),
				Points:      3,
				Cards:       g.cards,
			})
		case 2:
			matches = append(matches, HandType{
				Name:        HandOnePair,
				Description: fmt.Sprintf("pair of %s", g.element.Symbol),
				Points:      1,
				Cards:       g.cards,
			})
		}
	}
	return matches
}

// matchFullHouse fires only when exactly one triple and exactly one pair
// coexist.
func matchFullHouse(groups []elementGroup) (HandType, bool) {
	var triples, pairs []elementGroup
	for _, g := range groups {
		switch len(g.cards) {
		case 3:
			triples = append(triples, g)
		case 2:
			pairs = append(pairs, g)
		}
	}
	if len(triples) != 1 || len(pairs) != 1 {
		return HandType{}, false
	}
	cards := append(append([]Card{}, triples[0].cards...), pairs[0].cards...)
	return HandType{
		Name:        HandFullHouse,
		Description: fmt.Sprintf("three %s + pair of %s", triples[0].element.Symbol, pairs[0].element.Symbol),
		Points:      6,
		Cards:       cards,
	}, true
}

// matchStraight reports the first run of `length` consecutive atomic
// numbers when scanning the distinct atomic numbers ascending. One
// representative card per run member.
func matchStraight(groups []elementGroup, length int, name string, points int) (HandType, bool) {
	for i := 0; i+length <= len(groups); i++ {
		run := true
		for j := 1; j < length; j++ {
			if groups[i+j].element.AtomicNumber != groups[i].element.AtomicNumber+j {
				run = false
				break
			}
		}
		if !run {
			continue
		}
		cards := make([]Card, 0, length)
		nums := make([]string, 0, length)
		for j := 0; j < length; j++ {
			cards = append(cards, groups[i+j].cards[0])
			nums = append(nums, fmt.Sprintf("%d", groups[i+j].element.AtomicNumber))
		}
		return HandType{
			Name:        name,
			Description: fmt.Sprintf("consecutive atomic numbers %s", strings.Join(nums, "-")),
			Points:      points,
			Cards:       cards,
		}, true
	}
	return HandType{}, false
}

// matchSameRow detects periods (byPeriod) or groups of the periodic table
// holding 3+ distinct elements. One match per qualifying row.
func matchSameRow(groups []elementGroup, byPeriod bool) []HandType {
	rows := map[int][]elementGroup{}
	for _, g := range groups {
		key := g.element.Group
		if byPeriod {
			key = g.element.Period
		}
		rows[key] = append(rows[key], g)
	}

	keys := make([]int, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var matches []HandType
	for _, k := range keys {
		members := rows[k]
		if len(members) < 3 {
			continue
		}
		cards := make([]Card, 0, 3)
		for _, g := range members[:3] {
			cards = append(cards, g.cards[0])
		}
		name, what := HandSameGroup, "group"
		if byPeriod {
			name, what = HandSamePeriod, "period"
		}
		matches = append(matches, HandType{
			Name:        name,
			Description: fmt.Sprintf("three distinct elements of %s %d", what, k),
			Points:      4,
			Cards:       cards,
		})
	}
	return matches
}

func allHighAtomic(hand []Card) bool {
	if len(hand) == 0 {
		return false
	}
	for _, c := range hand {
		if c.Element.AtomicNumber < HighAtomicThreshold {
			return false
		}
	}
	return true
}

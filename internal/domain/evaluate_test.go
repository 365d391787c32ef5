package domain

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// handOf builds a hand from element symbols, numbering repeated copies the
// way NewDeck does.
func handOf(t *testing.T, symbols ...string) []Card {
	t.Helper()
	copies := make(map[string]int)
	hand := make([]Card, 0, len(symbols))
	for _, sym := range symbols {
		el, ok := ElementBySymbol(sym)
		if !ok {
			t.Fatalf("unknown element symbol %q", sym)
		}
		hand = append(hand, Card{ID: fmt.Sprintf("%s-%d", sym, copies[sym]), Element: el})
		copies[sym]++
	}
	return hand
}

func matchNames(matches []HandType) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}

func hasMatch(matches []HandType, name string) bool {
	for _, m := range matches {
		if m.Name == name {
			return true
		}
	}
	return false
}

func TestEvaluateOfAKindPatterns(t *testing.T) {
	tests := []struct {
		name      string
		hand      []string
		wantNames []string
		wantTotal int
	}{
		{
			name:      "quad scores once, not as triple or pair",
			hand:      []string{"H", "H", "H", "H"},
			wantNames: []string{HandFourOfAKind},
			wantTotal: 6,
		},
		{
			name:      "lone pair",
			hand:      []string{"He", "He", "C"},
			wantNames: []string{HandOnePair},
			wantTotal: 1,
		},
		{
			name:      "triple plus disjoint pair reports full house too",
			hand:      []string{"H", "H", "H", "Ar", "Ar"},
			wantNames: []string{HandOnePair, HandThreeOfAKind, HandFullHouse},
			wantTotal: 10,
		},
		{
			name:      "two pairs is not a full house",
			hand:      []string{"H", "H", "Ar", "Ar"},
			wantNames: []string{HandOnePair, HandOnePair},
			wantTotal: 2,
		},
		{
			name:      "two triples is not a full house",
			hand:      []string{"H", "H", "H", "Ar", "Ar", "Ar"},
			wantNames: []string{HandThreeOfAKind, HandThreeOfAKind},
			wantTotal: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Evaluate(handOf(t, tt.hand...))
			if len(matches) != len(tt.wantNames) {
				t.Fatalf("got matches %v, want names %v", matchNames(matches), tt.wantNames)
			}
			for _, name := range tt.wantNames {
				if !hasMatch(matches, name) {
					t.Errorf("missing match %s in %v", name, matchNames(matches))
				}
			}
			if got := TotalScore(matches); got != tt.wantTotal {
				t.Errorf("TotalScore = %d, want %d", got, tt.wantTotal)
			}
		})
	}
}

func TestEvaluateStraights(t *testing.T) {
	// 6-7-8 is the only consecutive run. He(2) and Ca(20) do not extend it.
	matches := Evaluate(handOf(t, "C", "N", "O", "He", "Ca"))
	if !hasMatch(matches, HandStraightThree) {
		t.Fatalf("expected %s in %v", HandStraightThree, matchNames(matches))
	}
	if hasMatch(matches, HandStraightFive) {
		t.Errorf("unexpected %s in %v", HandStraightFive, matchNames(matches))
	}

	// A 5-long run yields both the straight-5 and the straight-3 within it.
	matches = Evaluate(handOf(t, "B", "C", "N", "O", "F"))
	if !hasMatch(matches, HandStraightFive) || !hasMatch(matches, HandStraightThree) {
		t.Fatalf("expected straight-5 and straight-3 in %v", matchNames(matches))
	}
}

func TestEvaluateStraightReportsFirstRun(t *testing.T) {
	// Two disjoint 3-runs: 3-4-5 and 11-12-13. The ascending scan must
	// report 3-4-5.
	matches := Evaluate(handOf(t, "Na", "Mg", "Al", "Li", "Be", "B"))

	var straight *HandType
	for i := range matches {
		if matches[i].Name == HandStraightThree {
			straight = &matches[i]
			break
		}
	}
	if straight == nil {
		t.Fatalf("no straight-3 in %v", matchNames(matches))
	}
	if straight.Cards[0].Element.AtomicNumber != 3 {
		t.Errorf("straight starts at %d, want 3", straight.Cards[0].Element.AtomicNumber)
	}
}

func TestEvaluateSamePeriodAndGroup(t *testing.T) {
	// H(g1 p1), Na(g1 p3), K(g1 p4) share group 1 without sharing a period
	// or forming a run.
	matches := Evaluate(handOf(t, "H", "Na", "K"))
	if !hasMatch(matches, HandSameGroup) {
		t.Fatalf("expected %s in %v", HandSameGroup, matchNames(matches))
	}
	if hasMatch(matches, HandSamePeriod) {
		t.Errorf("unexpected %s in %v", HandSamePeriod, matchNames(matches))
	}

	// Na(11), Al(13), P(15), Cl(17) share period 3 with no run; four
	// distinct members still yield a single period match.
	matches = Evaluate(handOf(t, "Na", "Al", "P", "Cl"))
	periodMatches := 0
	for _, m := range matches {
		if m.Name == HandSamePeriod {
			periodMatches++
			if len(m.Cards) != 3 {
				t.Errorf("period match carries %d cards, want 3", len(m.Cards))
			}
		}
	}
	if periodMatches != 1 {
		t.Errorf("got %d period matches, want 1", periodMatches)
	}
}

func TestEvaluateHighAtomicsOnly(t *testing.T) {
	matches := Evaluate(handOf(t, "Ne", "Si", "Ar"))
	if len(matches) != 1 || matches[0].Name != HandHighAtomics {
		t.Fatalf("got %v, want exactly [%s]", matchNames(matches), HandHighAtomics)
	}
	if matches[0].Points != 20 {
		t.Errorf("points = %d, want 20", matches[0].Points)
	}

	// One low card disqualifies the pattern.
	matches = Evaluate(handOf(t, "Ne", "Si", "Ar", "H"))
	if hasMatch(matches, HandHighAtomics) {
		t.Errorf("unexpected %s with a low card in hand", HandHighAtomics)
	}
}

func TestEvaluateAllDistinct(t *testing.T) {
	hand := handOf(t, "H", "He", "Be", "B", "N", "O", "Ne", "Na", "Al", "Si", "S", "Cl", "K")
	matches := Evaluate(hand)
	if !hasMatch(matches, HandAllDistinct) {
		t.Fatalf("expected %s in %v", HandAllDistinct, matchNames(matches))
	}

	// Pairing up removes the pattern even at 13 cards.
	hand = handOf(t, "H", "H", "Be", "B", "N", "O", "Ne", "Na", "Al", "Si", "S", "Cl", "K")
	if hasMatch(Evaluate(hand), HandAllDistinct) {
		t.Errorf("unexpected %s with duplicated element", HandAllDistinct)
	}
}

func TestEvaluateNoPatterns(t *testing.T) {
	if matches := Evaluate(nil); len(matches) != 0 {
		t.Errorf("empty hand produced matches %v", matchNames(matches))
	}
	// 1, 6, 10: no runs, no duplicate elements, no shared period or group
	// reaching three members, one low card.
	if matches := Evaluate(handOf(t, "H", "C", "Ne")); len(matches) != 0 {
		t.Errorf("patternless hand produced matches %v", matchNames(matches))
	}
	if CanWin(handOf(t, "H", "C", "Ne")) {
		t.Error("CanWin true for patternless hand")
	}
}

// The reference winning hand: triple H, pair He, the 6-7-8 run, and five
// quiet singletons. The triple+pair also form a full house and C-N-O share
// period 2, so the total lands at 17.
func exampleWinningHand(t *testing.T) []Card {
	return handOf(t, "H", "H", "H", "He", "He", "C", "N", "O", "Be", "Ne", "Na", "Al", "Ca")
}

func TestEvaluateExampleWinningHand(t *testing.T) {
	matches := Evaluate(exampleWinningHand(t))

	for _, name := range []string{HandThreeOfAKind, HandOnePair, HandFullHouse, HandStraightThree, HandSamePeriod} {
		if !hasMatch(matches, name) {
			t.Errorf("missing %s in %v", name, matchNames(matches))
		}
	}
	if len(matches) != 5 {
		t.Errorf("got %d matches (%v), want 5", len(matches), matchNames(matches))
	}

	total := TotalScore(matches)
	if total != 17 {
		t.Errorf("TotalScore = %d, want 17", total)
	}
	if !CanWin(exampleWinningHand(t)) || total < WinThreshold {
		t.Error("example hand should qualify as a win")
	}
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	hand := exampleWinningHand(t)
	want := Evaluate(hand)
	wantTotal := TotalScore(want)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]Card{}, hand...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Evaluate(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d changed matches:\ngot  %+v\nwant %+v", i, got, want)
		}
		if TotalScore(got) != wantTotal {
			t.Fatalf("permutation %d changed total: %d != %d", i, TotalScore(got), wantTotal)
		}
	}
}

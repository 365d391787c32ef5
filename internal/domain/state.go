package domain

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseSetup is the pre-deal state while players are being configured.
	PhaseSetup Phase = "setup"
	// PhasePlaying is the active state where turns are taken.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the terminal state after a player has won.
	PhaseEnded Phase = "ended"
)

// Card is a single element card. The ID stays stable while the card moves
// between deck, hands and the discard pile.
type Card struct {
	ID      string  `json:"id"`
	Element Element `json:"element"`
}

// Player holds state for a participant in the game.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hand    []Card `json:"hand"`
	IsHuman bool   `json:"is_human"`
	Score   int    `json:"score"`
}

// Game holds authoritative state for a single game instance.
// The player slice order is the turn order and never changes mid-game.
type Game struct {
	Players            []*Player `json:"players"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	Deck               []Card    `json:"deck"`
	DiscardPile        []Card    `json:"discard_pile"`
	Phase              Phase     `json:"phase"`
	Winner             string    `json:"winner"` // player ID, empty until ended
	Turn               int       `json:"turn"`
	HasDrawnThisTurn   bool      `json:"has_drawn_this_turn"`
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerIndex]
}

// DiscardTop returns the visible top of the discard pile, or false when empty.
func (g *Game) DiscardTop() (Card, bool) {
	if len(g.DiscardPile) == 0 {
		return Card{}, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// CardCount returns the number of cards across deck, hands and discard pile.
// Constant after the deal.
func (g *Game) CardCount() int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, pl := range g.Players {
		n += len(pl.Hand)
	}
	return n
}

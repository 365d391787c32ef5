package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameGenso is the authoritative match handler name registered with Nakama.
	MatchNameGenso = "genso_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpDrawCard       int64 = 2
	OpDiscardCard    int64 = 3
	OpRequestNewGame int64 = 4

	// Server -> Client events
	OpMatchSnapshot int64 = 101
	OpGameStarted   int64 = 102
	OpHandDealt     int64 = 103 // send privately
	OpCardDrawn     int64 = 104 // private for deck draws
	OpCardDiscarded int64 = 105
	OpGameEnded     int64 = 106
	OpGameError     int64 = 107
)

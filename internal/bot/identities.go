package bot

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Identity is a display profile for a bot seat.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

var defaultIdentities = []Identity{
	{ID: "bot-curie", Username: "curie", DisplayName: "Curie", AvatarIndex: 0},
	{ID: "bot-mendeleev", Username: "mendeleev", DisplayName: "Mendeleev", AvatarIndex: 1},
	{ID: "bot-lavoisier", Username: "lavoisier", DisplayName: "Lavoisier", AvatarIndex: 2},
	{ID: "bot-dalton", Username: "dalton", DisplayName: "Dalton", AvatarIndex: 3},
	{ID: "bot-bohr", Username: "bohr", DisplayName: "Bohr", AvatarIndex: 4},
}

// The pool is read from every match goroutine, so the slice and its index
// are only ever swapped together under the mutex.
var (
	mu         sync.RWMutex
	identities = defaultIdentities
	identityBy = indexIdentities(defaultIdentities)
	loadOnce   sync.Once
	loadErr    error
)

func indexIdentities(pool []Identity) map[string]Identity {
	byID := make(map[string]Identity, len(pool))
	for _, ident := range pool {
		byID[ident.ID] = ident
	}
	return byID
}

// LoadIdentities replaces the built-in profile pool from a JSON file.
// Safe to skip; the built-in pool is used when never called.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("read bot identities: %w", err)
			return
		}
		var loaded []Identity
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("unmarshal bot identities: %w", err)
			return
		}
		if len(loaded) > 0 {
			mu.Lock()
			identities = loaded
			identityBy = indexIdentities(loaded)
			mu.Unlock()
		}
	})
	return loadErr
}

// PickIdentity returns a random profile from the pool.
func PickIdentity(rng *rand.Rand) Identity {
	mu.RLock()
	defer mu.RUnlock()
	return identities[rng.Intn(len(identities))]
}

// IdentityByID looks up a profile, reporting whether the ID is a bot.
func IdentityByID(id string) (Identity, bool) {
	mu.RLock()
	defer mu.RUnlock()
	ident, ok := identityBy[id]
	return ident, ok
}

package game

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the JSON form of the state. Map keys marshal in sorted
// order, so equal states always share a fingerprint.
func (gs *GameState) Fingerprint() (uint64, error) {
	b, err := json.Marshal(gs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode state: %w", err)
	}
	return xxhash.Sum64(b), nil
}

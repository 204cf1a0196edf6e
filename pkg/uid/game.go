package uid

import "github.com/google/uuid"

// GenerateGameID returns a random identifier for a new game.
func GenerateGameID() string {
	return uuid.NewString()
}

// GeneratePlayerID returns a random identifier for a guest player.
func GeneratePlayerID() string {
	return uuid.NewString()
}

// IsValid reports whether id looks like one of ours.
func IsValid(id string) bool {
	return uuid.Validate(id) == nil
}

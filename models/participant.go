package models

import "github.com/google/uuid"

// Participant is a tournament entrant: one player for singles, a pair for
// doubles. Participants belong to exactly one tournament and are immutable
// once the match structure has been generated, except for the seed flag
// during setup.
type Participant struct {
	ID        uuid.UUID `json:"id"`
	PlayerIDs []int     `json:"player_ids"`
	Seeded    bool      `json:"seeded"`
}

func NewParticipant(playerIDs ...int) Participant {
	return Participant{ID: uuid.New(), PlayerIDs: playerIDs}
}

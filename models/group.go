package models

import "github.com/google/uuid"

// StandingEntry is one participant's tally within a group.
type StandingEntry struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Wins          int       `json:"wins"`
	SetsWon       int       `json:"sets_won"`
	GamesWon      int       `json:"games_won"`
}

// Group is a round-robin pool: every member plays every other member once.
// Groups are generated at tournament setup and never regenerated after play
// begins. Standings are derived from the group's decided matches and cached
// on the aggregate after every result submission.
type Group struct {
	Name           string          `json:"name"`
	ParticipantIDs []uuid.UUID     `json:"participant_ids"`
	Matches        []Match         `json:"matches"`
	Standings      []StandingEntry `json:"standings,omitempty"`
}

// Complete reports whether every match in the group has a winner.
func (g *Group) Complete() bool {
	for i := range g.Matches {
		if !g.Matches[i].Decided() {
			return false
		}
	}
	return true
}

func (g *Group) HasParticipant(id uuid.UUID) bool {
	for _, pid := range g.ParticipantIDs {
		if pid == id {
			return true
		}
	}
	return false
}

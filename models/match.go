package models

import (
	"time"

	"github.com/google/uuid"
)

// SetScore holds the game counts of one set. Tiebreak points are populated
// only when both sides reached the games-per-set threshold equally (6-6).
type SetScore struct {
	GamesA    int  `json:"games_a"`
	GamesB    int  `json:"games_b"`
	TiebreakA *int `json:"tiebreak_a,omitempty"`
	TiebreakB *int `json:"tiebreak_b,omitempty"`
}

// TiebreakScore is the match tiebreak played instead of a third set when a
// two-set match is split 1-1.
type TiebreakScore struct {
	PointsA int `json:"points_a"`
	PointsB int `json:"points_b"`
}

// Result is the recorded outcome of a match. RunnerUpID is set only on the
// final match of a bracket.
type Result struct {
	Sets          []SetScore     `json:"sets"`
	MatchTiebreak *TiebreakScore `json:"match_tiebreak,omitempty"`
	WinnerID      uuid.UUID      `json:"winner_id"`
	RunnerUpID    *uuid.UUID     `json:"runner_up_id,omitempty"`
}

// Match pairs two participant slots. A nil slot is a synthetic bye; a match
// with a bye is decided immediately in favor of the real participant, with
// no sets recorded.
type Match struct {
	ID          uuid.UUID  `json:"id"`
	SlotA       *uuid.UUID `json:"slot_a,omitempty"`
	SlotB       *uuid.UUID `json:"slot_b,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Result      *Result    `json:"result,omitempty"`
}

func (m *Match) Decided() bool {
	return m.Result != nil && m.Result.WinnerID != uuid.Nil
}

func (m *Match) IsBye() bool {
	return m.SlotA == nil || m.SlotB == nil
}

// Involves reports whether the participant occupies one of the match slots.
func (m *Match) Involves(participantID uuid.UUID) bool {
	return (m.SlotA != nil && *m.SlotA == participantID) ||
		(m.SlotB != nil && *m.SlotB == participantID)
}

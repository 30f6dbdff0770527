package models

import "time"

type DominantHand string

const (
	HandRight DominantHand = "right"
	HandLeft  DominantHand = "left"
)

// Player is a club member that can be entered into tournaments.
// Players are never hard-deleted, only deactivated.
type Player struct {
	ID           int            `json:"id"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        *string        `json:"email,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	DominantHand DominantHand   `json:"dominant_hand"`
	RacketBrand  *string        `json:"racket_brand,omitempty"`
	Active       bool           `json:"active"`
	UserID       *int           `json:"user_id,omitempty"`
	AvatarKey    *string        `json:"-"`
	AvatarURL    *string        `json:"avatar_url,omitempty"`
	History      []HistoryEntry `json:"history,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// HistoryEntry records one played match or a tournament achievement in a
// player's chronological history.
type HistoryEntry struct {
	TournamentID int       `json:"tournament_id"`
	OpponentID   *int      `json:"opponent_id,omitempty"`
	Result       string    `json:"result,omitempty"`
	Position     *int      `json:"position,omitempty"` // 1 winner, 2 runner-up
	Date         time.Time `json:"date"`
}

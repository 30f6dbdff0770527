package models

import (
	"time"

	"github.com/google/uuid"
)

type TournamentType string

const (
	TypeRoundRobin  TournamentType = "round_robin"
	TypeElimination TournamentType = "elimination"
)

// TournamentStatus moves strictly forward: pending -> in_progress -> finished.
type TournamentStatus string

const (
	StatusPending    TournamentStatus = "pending"
	StatusInProgress TournamentStatus = "in_progress"
	StatusFinished   TournamentStatus = "finished"
)

type Sport string

const (
	SportTennis Sport = "tennis"
	SportPadel  Sport = "padel"
)

type PlayMode string

const (
	ModeSingles PlayMode = "singles"
	ModeDoubles PlayMode = "doubles"
)

// TournamentConfig carries the scoring format and group-stage parameters.
type TournamentConfig struct {
	Sport            Sport    `json:"sport"`
	Category         string   `json:"category,omitempty"`
	Mode             PlayMode `json:"mode"`
	SetsPerMatch     int      `json:"sets_per_match"`
	GamesPerSet      int      `json:"games_per_set"`
	TiebreakMin      int      `json:"tiebreak_min"`
	MatchTiebreakMin int      `json:"match_tiebreak_min"`
	GroupSize        int      `json:"group_size,omitempty"`
	AdvancePerGroup  int      `json:"advance_per_group,omitempty"`
}

// Tournament is the single authoritative aggregate: its groups, rounds and
// matches are only ever mutated through a full read-modify-write of the
// whole document, guarded by Revision.
type Tournament struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Config       TournamentConfig `json:"config"`
	Type         TournamentType   `json:"type"`
	Status       TournamentStatus `json:"status"`
	Draft        bool             `json:"draft"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	Participants []Participant    `json:"participants"`
	Groups       []Group          `json:"groups,omitempty"`
	Rounds       []Round          `json:"rounds,omitempty"`
	WinnerID     *uuid.UUID       `json:"winner_id,omitempty"`
	RunnerUpID   *uuid.UUID       `json:"runner_up_id,omitempty"`
	Revision     int              `json:"-"`
	CreatedAt    time.Time        `json:"created_at"`
}

// StructureGenerated reports whether the match structure exists, after which
// participants are immutable.
func (t *Tournament) StructureGenerated() bool {
	return len(t.Groups) > 0 || len(t.Rounds) > 0
}

func (t *Tournament) ParticipantByID(id uuid.UUID) *Participant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

// FindMatch locates a match in whichever group or round contains it. The
// second return value is the owning group, nil for bracket matches.
func (t *Tournament) FindMatch(matchID uuid.UUID) (*Match, *Group) {
	for gi := range t.Groups {
		g := &t.Groups[gi]
		for mi := range g.Matches {
			if g.Matches[mi].ID == matchID {
				return &g.Matches[mi], g
			}
		}
	}
	for ri := range t.Rounds {
		r := &t.Rounds[ri]
		for mi := range r.Matches {
			if r.Matches[mi].ID == matchID {
				return &r.Matches[mi], nil
			}
		}
	}
	return nil, nil
}

// LastRound returns the most recent bracket round, or nil if none exist.
func (t *Tournament) LastRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return &t.Rounds[len(t.Rounds)-1]
}

// InFinalRound reports whether the match is the sole match of the last round.
func (t *Tournament) InFinalRound(matchID uuid.UUID) bool {
	last := t.LastRound()
	if last == nil || len(last.Matches) != 1 {
		return false
	}
	return last.Matches[0].ID == matchID
}

// GroupsComplete reports whether every group match has a winner.
func (t *Tournament) GroupsComplete() bool {
	for i := range t.Groups {
		if !t.Groups[i].Complete() {
			return false
		}
	}
	return true
}

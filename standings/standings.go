// Package standings derives per-participant tallies from a group's decided
// matches and produces a ranked ordering.
package standings

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/scoring"
)

// ErrUnknownParticipant signals a match referencing a participant that is not
// a member of the group. This is a data-integrity fault and must be surfaced
// to the caller, never silently dropped.
var ErrUnknownParticipant = errors.New("match references a participant outside the group")

// Compute tallies wins, sets won and games won for every group member from
// the group's decided matches, ranked descending by (wins, setsWon,
// gamesWon). Ties keep the group's member order (stable sort). The result is
// a pure function of the group's current matches.
func Compute(group *models.Group) ([]models.StandingEntry, error) {
	index := make(map[uuid.UUID]*models.StandingEntry, len(group.ParticipantIDs))
	entries := make([]models.StandingEntry, len(group.ParticipantIDs))
	for i, pid := range group.ParticipantIDs {
		entries[i] = models.StandingEntry{ParticipantID: pid}
		index[pid] = &entries[i]
	}

	for mi := range group.Matches {
		m := &group.Matches[mi]
		if !m.Decided() {
			continue
		}
		if m.SlotA == nil || m.SlotB == nil {
			// Group matches never carry byes.
			return nil, fmt.Errorf("%w: group %q match %s has an empty slot", ErrUnknownParticipant, group.Name, m.ID)
		}
		entryA, okA := index[*m.SlotA]
		entryB, okB := index[*m.SlotB]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: group %q match %s", ErrUnknownParticipant, group.Name, m.ID)
		}

		winner, ok := index[m.Result.WinnerID]
		if !ok {
			return nil, fmt.Errorf("%w: group %q match %s winner", ErrUnknownParticipant, group.Name, m.ID)
		}
		winner.Wins++

		for _, set := range m.Result.Sets {
			entryA.GamesWon += set.GamesA
			entryB.GamesWon += set.GamesB
			if scoring.SetWinner(set) == scoring.SideA {
				entryA.SetsWon++
			} else {
				entryB.SetsWon++
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if entries[i].SetsWon != entries[j].SetsWon {
			return entries[i].SetsWon > entries[j].SetsWon
		}
		return entries[i].GamesWon > entries[j].GamesWon
	})
	return entries, nil
}

// BreakTies randomly reorders every block of entries with identical
// (wins, setsWon, gamesWon) tallies. Random tie resolution is a deliberate,
// explicitly requested operation; Compute itself keeps ties in stable order.
func BreakTies(entries []models.StandingEntry, rng *rand.Rand) []models.StandingEntry {
	out := make([]models.StandingEntry, len(entries))
	copy(out, entries)

	start := 0
	for i := 1; i <= len(out); i++ {
		if i < len(out) && sameTally(out[i], out[start]) {
			continue
		}
		block := out[start:i]
		rng.Shuffle(len(block), func(a, b int) {
			block[a], block[b] = block[b], block[a]
		})
		start = i
	}
	return out
}

func sameTally(a, b models.StandingEntry) bool {
	return a.Wins == b.Wins && a.SetsWon == b.SetsWon && a.GamesWon == b.GamesWon
}

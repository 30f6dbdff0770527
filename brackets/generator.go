// Package brackets builds round-robin groups and single-elimination rounds,
// and advances a bracket round by round to a final winner.
package brackets

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/models"
)

var (
	ErrNotEnoughParticipants  = errors.New("at least 2 participants are required")
	ErrIncompleteGroupStage   = errors.New("group stage has matches without a winner")
	ErrInsufficientQualifiers = errors.New("not enough qualifiers to form a bracket")
	ErrRoundIncomplete        = errors.New("round has matches without a winner")
)

// MaxSeeds caps how many participants can be seeded apart in the draw.
const MaxSeeds = 6

// BuildInitialRound builds round 1 of a knockout bracket. Seeded participants
// (at most MaxSeeds) keep their order at the front of the draw, the rest are
// shuffled, and the list is padded to the nearest power of two with byes.
// Pairing follows the conventional i vs slots-1-i scheme, which places seeds
// at opposite ends so they cannot meet before the late rounds. A match whose
// opposite slot is a bye is decided immediately, no sets recorded.
func BuildInitialRound(participants []models.Participant, rng *rand.Rand) (models.Round, error) {
	n := len(participants)
	if n < 2 {
		return models.Round{}, ErrNotEnoughParticipants
	}

	ordered := orderForDraw(participants, rng)
	slots := nextPowerOfTwo(n)

	matches := make([]models.Match, 0, slots/2)
	for i := 0; i < slots/2; i++ {
		// Positions beyond the real participant count are byes. The low
		// position of each pair is always a real participant because the
		// bye count is strictly below slots/2.
		a := ordered[i].ID
		match := models.Match{ID: uuid.New(), SlotA: &a}

		if opp := slots - 1 - i; opp < n {
			b := ordered[opp].ID
			match.SlotB = &b
		} else {
			match.Result = &models.Result{WinnerID: a}
		}
		matches = append(matches, match)
	}

	return models.Round{Number: 1, Matches: matches}, nil
}

// orderForDraw moves seeded participants to the front (original order, capped
// at MaxSeeds) and shuffles the remainder.
func orderForDraw(participants []models.Participant, rng *rand.Rand) []models.Participant {
	seeds := make([]models.Participant, 0, MaxSeeds)
	rest := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		if p.Seeded && len(seeds) < MaxSeeds {
			seeds = append(seeds, p)
		} else {
			rest = append(rest, p)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return append(seeds, rest...)
}

func nextPowerOfTwo(n int) int {
	slots := 1
	for slots < n {
		slots <<= 1
	}
	return slots
}

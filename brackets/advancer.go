package brackets

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/models"
)

// NextRound builds the round following current by pairing consecutive
// winners in match order. It fails with ErrRoundIncomplete while any match
// lacks a winner. When current holds exactly one decided match the bracket
// is terminal: finished is true and no further round is produced, and the
// tournament service finalizes with that match's winner instead.
func NextRound(current models.Round) (next *models.Round, finished bool, err error) {
	for i := range current.Matches {
		if !current.Matches[i].Decided() {
			return nil, false, fmt.Errorf("%w: round %d match %s", ErrRoundIncomplete, current.Number, current.Matches[i].ID)
		}
	}

	if len(current.Matches) == 1 {
		return nil, true, nil
	}

	winners := make([]uuid.UUID, 0, len(current.Matches))
	for i := range current.Matches {
		winners = append(winners, current.Matches[i].Result.WinnerID)
	}

	round := &models.Round{Number: current.Number + 1}
	for i := 0; i+1 < len(winners); i += 2 {
		a, b := winners[i], winners[i+1]
		round.Matches = append(round.Matches, models.Match{ID: uuid.New(), SlotA: &a, SlotB: &b})
	}
	if len(winners)%2 == 1 {
		// Odd winner counts cannot happen in a power-of-two bracket, but a
		// lone leftover advances on a bye rather than being dropped.
		a := winners[len(winners)-1]
		round.Matches = append(round.Matches, models.Match{
			ID:     uuid.New(),
			SlotA:  &a,
			Result: &models.Result{WinnerID: a},
		})
	}
	return round, false, nil
}

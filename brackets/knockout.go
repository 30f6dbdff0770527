package brackets

import (
	"fmt"
	"math/rand"

	"github.com/courtside/tournament-server/models"

	"github.com/courtside/tournament-server/standings"
)

// BuildKnockoutFromGroups pools the top advancePerGroup participants of every
// group's standings and builds the first knockout round from them. Group
// seeding is not propagated: qualifiers enter the draw unseeded. Every group
// must be fully decided first.
func BuildKnockoutFromGroups(participants []models.Participant, groups []models.Group, advancePerGroup int, rng *rand.Rand) (models.Round, error) {
	if advancePerGroup < 1 {
		advancePerGroup = 1
	}

	for i := range groups {
		if !groups[i].Complete() {
			return models.Round{}, fmt.Errorf("%w: %s", ErrIncompleteGroupStage, groups[i].Name)
		}
	}

	qualifiers := make([]models.Participant, 0, len(groups)*advancePerGroup)
	for i := range groups {
		table, err := standings.Compute(&groups[i])
		if err != nil {
			return models.Round{}, err
		}
		top := advancePerGroup
		if top > len(table) {
			top = len(table)
		}
		for _, entry := range table[:top] {
			var found *models.Participant
			for pi := range participants {
				if participants[pi].ID == entry.ParticipantID {
					found = &participants[pi]
					break
				}
			}
			if found == nil {
				return models.Round{}, fmt.Errorf("%w: qualifier %s from %s", standings.ErrUnknownParticipant, entry.ParticipantID, groups[i].Name)
			}
			qualifier := *found
			qualifier.Seeded = false
			qualifiers = append(qualifiers, qualifier)
		}
	}

	if len(qualifiers) < 2 {
		return models.Round{}, ErrInsufficientQualifiers
	}
	return BuildInitialRound(qualifiers, rng)
}

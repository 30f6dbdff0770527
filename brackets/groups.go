package brackets

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/courtside/tournament-server/models"
)

// DefaultGroupSize is used when the tournament config does not set one.
const DefaultGroupSize = 4

// BuildGroups shuffles the participants and partitions them into round-robin
// groups of roughly groupSize members, then generates the all-pairs match
// list for each group. Groups are built once at setup; they are never
// regenerated after play begins.
func BuildGroups(participants []models.Participant, groupSize int, rng *rand.Rand) ([]models.Group, error) {
	n := len(participants)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if groupSize < 2 {
		groupSize = DefaultGroupSize
	}

	shuffled := make([]models.Participant, n)
	copy(shuffled, participants)
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	groupCount := (n + groupSize - 1) / groupSize
	base := n / groupCount
	extra := n % groupCount

	groups := make([]models.Group, 0, groupCount)
	offset := 0
	for gi := 0; gi < groupCount; gi++ {
		size := base
		if gi < extra {
			size++
		}
		members := shuffled[offset : offset+size]
		offset += size

		group := models.Group{Name: groupName(gi)}
		for _, p := range members {
			group.ParticipantIDs = append(group.ParticipantIDs, p.ID)
		}
		group.Matches = allPairs(group.ParticipantIDs)
		groups = append(groups, group)
	}
	return groups, nil
}

func allPairs(ids []uuid.UUID) []models.Match {
	matches := make([]models.Match, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			matches = append(matches, models.Match{ID: uuid.New(), SlotA: &a, SlotB: &b})
		}
	}
	return matches
}

func groupName(index int) string {
	if index < 26 {
		return fmt.Sprintf("Group %c", 'A'+index)
	}
	return fmt.Sprintf("Group %d", index+1)
}

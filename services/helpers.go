package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/courtside/tournament-server/models"
	"github.com/courtside/tournament-server/repositories"
)

func applyConfigDefaults(cfg *models.TournamentConfig) {
	if cfg.Sport == "" {
		cfg.Sport = models.SportTennis
	}
	if cfg.Mode == "" {
		cfg.Mode = models.ModeSingles
	}
	if cfg.SetsPerMatch == 0 {
		cfg.SetsPerMatch = 2
	}
	if cfg.GamesPerSet == 0 {
		cfg.GamesPerSet = 6
	}
	if cfg.TiebreakMin == 0 {
		cfg.TiebreakMin = 7
	}
	if cfg.MatchTiebreakMin == 0 {
		cfg.MatchTiebreakMin = 10
	}
	if cfg.GroupSize == 0 {
		cfg.GroupSize = 4
	}
	if cfg.AdvancePerGroup == 0 {
		cfg.AdvancePerGroup = 2
	}
}

func validateConfig(cfg models.TournamentConfig) error {
	if cfg.Sport != models.SportTennis && cfg.Sport != models.SportPadel {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalidConfig, cfg.Sport)
	}
	if cfg.Mode != models.ModeSingles && cfg.Mode != models.ModeDoubles {
		return fmt.Errorf("%w: unknown play mode %q", ErrInvalidConfig, cfg.Mode)
	}
	if cfg.SetsPerMatch != 2 && cfg.SetsPerMatch != 3 {
		return fmt.Errorf("%w: sets per match must be 2 or 3", ErrInvalidConfig)
	}
	if cfg.GamesPerSet < 1 {
		return fmt.Errorf("%w: games per set must be positive", ErrInvalidConfig)
	}
	if cfg.GroupSize < 2 {
		return fmt.Errorf("%w: group size must be at least 2", ErrInvalidConfig)
	}
	if cfg.AdvancePerGroup < 1 {
		return fmt.Errorf("%w: advance per group must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func mapTournamentRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	default:
		// repositories.ErrConcurrentUpdate and storage failures propagate
		// unchanged; the whole operation is retryable by the caller.
		return err
	}
}

// formatScore renders a result the way players write it down: "6-4 4-6 [10-7]".
func formatScore(result *models.Result) string {
	parts := make([]string, 0, len(result.Sets)+1)
	for _, set := range result.Sets {
		part := fmt.Sprintf("%d-%d", set.GamesA, set.GamesB)
		if set.TiebreakA != nil && set.TiebreakB != nil {
			part += fmt.Sprintf("(%d-%d)", *set.TiebreakA, *set.TiebreakB)
		}
		parts = append(parts, part)
	}
	if result.MatchTiebreak != nil {
		parts = append(parts, fmt.Sprintf("[%d-%d]", result.MatchTiebreak.PointsA, result.MatchTiebreak.PointsB))
	}
	return strings.Join(parts, " ")
}

// rankPooled orders standings entries pooled across groups with the same
// comparison used inside a group.
func rankPooled(entries []models.StandingEntry) []models.StandingEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if entries[i].SetsWon != entries[j].SetsWon {
			return entries[i].SetsWon > entries[j].SetsWon
		}
		return entries[i].GamesWon > entries[j].GamesWon
	})
	return entries
}

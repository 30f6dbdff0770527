// Package scoring validates set and tiebreak scores and determines match
// winners under standard tennis/padel rules. It performs no I/O; the
// tournament service runs it before persisting any result.
package scoring

import (
	"errors"

	"github.com/courtside/tournament-server/models"
)

var (
	ErrInvalidScoreline = errors.New("set score does not satisfy the win condition")
	ErrMissingTiebreak  = errors.New("set requires a valid tiebreak score")
	ErrNoDecision       = errors.New("match result does not produce a winner")
)

// Side identifies one of the two participant slots of a match.
type Side int

const (
	SideA Side = iota
	SideB
)

// ValidateSet checks a single set against the configured games-per-set
// threshold. A set is won by reaching the threshold with a two-game margin,
// by threshold+1 games against threshold-1 (7-5 with six games per set), or
// via tiebreak when both sides reached the threshold equally. tiebreakMin is
// the minimum points the tiebreak winner must reach (7 in standard play).
func ValidateSet(set models.SetScore, gamesPerSet, tiebreakMin int) error {
	hi, lo := set.GamesA, set.GamesB
	if lo > hi {
		hi, lo = lo, hi
	}

	switch {
	case hi == gamesPerSet && hi-lo >= 2:
		return nil
	case hi == gamesPerSet+1 && lo == gamesPerSet-1:
		return nil
	case hi == gamesPerSet && lo == gamesPerSet:
		return validateSetTiebreak(set, tiebreakMin)
	default:
		return ErrInvalidScoreline
	}
}

func validateSetTiebreak(set models.SetScore, tiebreakMin int) error {
	if set.TiebreakA == nil || set.TiebreakB == nil {
		return ErrMissingTiebreak
	}
	hi, lo := *set.TiebreakA, *set.TiebreakB
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo || hi < tiebreakMin || hi-lo < 2 {
		return ErrMissingTiebreak
	}
	return nil
}

// SetWinner returns the side that won the set: higher games, or on equal
// games the higher tiebreak. The set is assumed to have passed ValidateSet.
func SetWinner(set models.SetScore) Side {
	if set.GamesA != set.GamesB {
		if set.GamesA > set.GamesB {
			return SideA
		}
		return SideB
	}
	if set.TiebreakA != nil && set.TiebreakB != nil && *set.TiebreakA > *set.TiebreakB {
		return SideA
	}
	return SideB
}

// MatchWinner determines the winning side of a match from its sets. A side
// wins outright by taking more than half of setsPerMatch. When a two-set
// match is split 1-1 the match tiebreak decides: its winner must reach
// matchTiebreakMin points with a margin of at least two. ErrNoDecision is
// returned when the sets are tied and no tiebreak rule applies, or the
// tiebreak itself is absent or undecided.
func MatchWinner(sets []models.SetScore, setsPerMatch int, matchTiebreak *models.TiebreakScore, matchTiebreakMin int) (Side, error) {
	var wonA, wonB int
	for _, s := range sets {
		if SetWinner(s) == SideA {
			wonA++
		} else {
			wonB++
		}
	}

	if wonA*2 > setsPerMatch {
		return SideA, nil
	}
	if wonB*2 > setsPerMatch {
		return SideB, nil
	}

	if setsPerMatch == 2 && wonA == 1 && wonB == 1 {
		return matchTiebreakWinner(matchTiebreak, matchTiebreakMin)
	}
	return 0, ErrNoDecision
}

func matchTiebreakWinner(tb *models.TiebreakScore, min int) (Side, error) {
	if tb == nil {
		return 0, ErrNoDecision
	}
	hi, lo := tb.PointsA, tb.PointsB
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo || hi < min || hi-lo < 2 {
		return 0, ErrNoDecision
	}
	if tb.PointsA > tb.PointsB {
		return SideA, nil
	}
	return SideB, nil
}

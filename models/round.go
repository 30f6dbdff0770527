package models

// Round is one layer of a single-elimination bracket. Rounds form an ordered
// list; round k+1 is only created once round k is fully decided.
type Round struct {
	Number  int     `json:"number"`
	Matches []Match `json:"matches"`
}

// Complete reports whether every match in the round has a winner. Bye-decided
// matches count as complete.
func (r *Round) Complete() bool {
	for i := range r.Matches {
		if !r.Matches[i].Decided() {
			return false
		}
	}
	return true
}

package recommend

import (
	"math"

	"github.com/jonathan/assessment-recommender/internal/catalog"
)

// filterDuration drops candidates whose duration exceeds the constraint.
// Records with unknown duration are kept. Returns the survivors and how many
// were dropped.
func filterDuration(candidates []Candidate, maxMinutes int) ([]Candidate, int) {
	if maxMinutes <= 0 {
		return candidates, 0
	}
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Assessment.MatchesDuration(maxMinutes) {
			kept = append(kept, c)
		}
	}
	return kept, len(candidates) - len(kept)
}

// balance reorders candidates so no single primary test-type code dominates
// the head of the list. A greedy pass admits candidates while their code is
// under the cap; skipped candidates are appended afterwards, so the cap is
// relaxed rather than under-filling the selection. Relative order within the
// admitted and skipped groups is preserved.
func balance(candidates []Candidate, target int, capFraction float64) []Candidate {
	if len(candidates) <= 1 {
		return candidates
	}
	if target > len(candidates) {
		target = len(candidates)
	}

	perType := int(math.Ceil(capFraction * float64(target)))
	if perType < 1 {
		perType = 1
	}

	counts := make(map[catalog.TestType]int)
	admitted := make([]Candidate, 0, len(candidates))
	skipped := make([]Candidate, 0)
	for _, c := range candidates {
		code := c.Assessment.PrimaryTestType()
		if counts[code] < perType {
			counts[code]++
			admitted = append(admitted, c)
		} else {
			skipped = append(skipped, c)
		}
	}
	return append(admitted, skipped...)
}

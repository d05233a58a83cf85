package fuzzy

import (
	"math"

	"github.com/sahilm/fuzzy"
)

// sahilmScale flattens sahilm scores before exponentiation so typical scores
// stay in a readable range.
const sahilmScale = 32.0

// Sahilm scores with github.com/sahilm/fuzzy, the matcher bubbles/list uses.
// sahilm scores can be negative for long targets even when they match, so the
// raw score is mapped through exp, which keeps ordering and makes every match
// positive.
type Sahilm struct{}

// Score implements the Scorer interface.
func (Sahilm) Score(target, query string) float64 {
	if query == "" {
		return 0
	}
	matches := fuzzy.Find(query, []string{target})
	if len(matches) == 0 {
		return 0
	}
	return math.Exp(float64(matches[0].Score) / sahilmScale)
}

// Positions returns the rune indices sahilm matched, or nil for no match.
// sahilm reports byte offsets, which are converted here.
func (Sahilm) Positions(target, query string) []int {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, []string{target})
	if len(matches) == 0 {
		return nil
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, b := range matches[0].MatchedIndexes {
		matched[b] = true
	}
	var positions []int
	runeIndex := 0
	for b := range target {
		if matched[b] {
			positions = append(positions, runeIndex)
		}
		runeIndex++
	}
	return positions
}

package fuzzy

import (
	"fmt"
	"strings"
	"unicode"
)

// Scorer calculates how relevant a target string is for a query.
// A score greater than zero means the target matches.
type Scorer interface {
	Score(target, query string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(target, query string) float64

// Score implements the Scorer interface.
func (f ScorerFunc) Score(target, query string) float64 {
	return f(target, query)
}

// Highlighter is implemented by scorers that can report which runes of the
// target their match used.
type Highlighter interface {
	Positions(target, query string) []int
}

// MatchPositions returns the rune indices of target that scorer matched
// query against, in ascending order. Scorers that cannot report positions
// fall back to the Subsequence alignment.
func MatchPositions(scorer Scorer, target, query string) []int {
	if h, ok := scorer.(Highlighter); ok {
		return h.Positions(target, query)
	}
	return Subsequence{}.Positions(target, query)
}

// Scoring weights for Subsequence.
// Every adjacent pair is worth more than the proximity and compactness terms
// combined, so contiguity always dominates where a match starts.
const (
	baseScore         = 1.0
	adjacencyBonus    = 10.0
	proximityWeight   = 2.0
	compactnessWeight = 2.0
)

// Subsequence is the default scorer: the query must appear in the target as a
// case-insensitive subsequence. Contiguous runs score higher, then matches that
// start closer to the beginning of the target, then matches with fewer gap
// characters.
type Subsequence struct{}

// Score implements the Scorer interface.
func (Subsequence) Score(target, query string) float64 {
	queryRunes := lowerRunes(query)
	if len(queryRunes) == 0 {
		return 0
	}
	textRunes := lowerRunes(target)
	if len(textRunes) < len(queryRunes) {
		return 0
	}

	best := 0.0
	for start, r := range textRunes {
		if r != queryRunes[0] {
			continue
		}
		matches := alignFrom(textRunes, queryRunes, start)
		if matches == nil {
			// No later start can complete the match either
			break
		}
		if score := scoreMatches(matches); score > best {
			best = score
		}
	}
	return best
}

// Positions returns the rune indices of the best alignment of query in target,
// or nil when the query is not a subsequence. Used to highlight matches.
func (Subsequence) Positions(target, query string) []int {
	queryRunes := lowerRunes(query)
	if len(queryRunes) == 0 {
		return nil
	}
	textRunes := lowerRunes(target)

	var best []int
	bestScore := 0.0
	for start, r := range textRunes {
		if r != queryRunes[0] {
			continue
		}
		matches := alignFrom(textRunes, queryRunes, start)
		if matches == nil {
			break
		}
		if score := scoreMatches(matches); score > bestScore {
			best, bestScore = matches, score
		}
	}
	return best
}

// alignFrom greedily matches queryRunes in textRunes with the first rune fixed
// at start. Each later rune prefers the position right after the previous one.
func alignFrom(textRunes, queryRunes []rune, start int) []int {
	matches := make([]int, 0, len(queryRunes))
	matches = append(matches, start)
	pos := start + 1
	for _, qr := range queryRunes[1:] {
		found := -1
		for i := pos; i < len(textRunes); i++ {
			if textRunes[i] == qr {
				found = i
				break
			}
		}
		if found < 0 {
			return nil
		}
		matches = append(matches, found)
		pos = found + 1
	}
	return matches
}

func scoreMatches(matches []int) float64 {
	adjacent := 0
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			adjacent++
		}
	}
	gaps := matches[len(matches)-1] - matches[0] - len(matches) + 1

	score := baseScore + adjacencyBonus*float64(adjacent)
	score += proximityWeight / float64(1+matches[0])
	score += compactnessWeight / float64(1+gaps)
	return score
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// Names of the built-in scorers, as used in configuration
const (
	NameSubsequence = "subsequence"
	NameFzf         = "fzf"
	NameSahilm      = "sahilm"
)

// Names lists every scorer ByName accepts
func Names() []string {
	return []string{NameSubsequence, NameFzf, NameSahilm}
}

// ByName returns the built-in scorer registered under name.
// An empty name selects the default subsequence scorer.
func ByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSubsequence:
		return Subsequence{}, nil
	case NameFzf:
		return NewFzf(), nil
	case NameSahilm:
		return Sahilm{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

package fuzzy

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var fzfInit sync.Once

// Fzf scores with fzf's optimal fuzzy matching algorithm (FuzzyMatchV2).
// Matching is case-insensitive and unicode-normalized. Calls are serialized
// because they share one slab.
type Fzf struct {
	mu   sync.Mutex
	slab *util.Slab
}

// NewFzf creates an fzf-backed scorer
func NewFzf() *Fzf {
	fzfInit.Do(func() {
		algo.Init("default")
	})
	return &Fzf{
		slab: util.MakeSlab(100*1024, 2048),
	}
}

// Score implements the Scorer interface.
func (f *Fzf) Score(target, query string) float64 {
	if query == "" {
		return 0
	}
	pattern := []rune(strings.ToLower(query))
	chars := util.ToChars([]byte(target))

	f.mu.Lock()
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, f.slab)
	f.mu.Unlock()

	if result.Start < 0 {
		return 0
	}
	// fzf scores a match at zero only in degenerate cases; keep every match positive
	return float64(result.Score) + 1
}

// Positions returns the rune indices fzf matched, or nil for no match.
func (f *Fzf) Positions(target, query string) []int {
	if query == "" {
		return nil
	}
	pattern := []rune(strings.ToLower(query))
	chars := util.ToChars([]byte(target))

	f.mu.Lock()
	result, pos := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, f.slab)
	f.mu.Unlock()

	if result.Start < 0 || pos == nil {
		return nil
	}
	positions := append([]int(nil), *pos...)
	sort.Ints(positions)
	return positions
}

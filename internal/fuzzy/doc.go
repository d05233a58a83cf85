// Package fuzzy provides the scoring providers used to rank picker items.
//
// A Scorer maps (target, query) to a relevance score; anything above zero is a
// match. Three implementations are built in:
//
//   - Subsequence: the default, a case-insensitive subsequence matcher that
//     rewards contiguous runs first and early matches second.
//   - Fzf: fzf's FuzzyMatchV2 algorithm.
//   - Sahilm: github.com/sahilm/fuzzy, as used by bubbles/list.
//
// ByName resolves the names used in the configuration file.
package fuzzy

package knowledge

import (
	"strings"
	"unicode"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// Tier names the matching rule that resolved a task query.
type Tier string

const (
	TierExact       Tier = "exact"
	TierSubstring   Tier = "substring"
	TierVariant     Tier = "variant"
	TierWordOverlap Tier = "word_overlap"
	TierDefault     Tier = "default" // near-miss: first block in document order
)

// minWordOverlap is the smallest word overlap accepted by TierWordOverlap.
const minWordOverlap = 2

// Match is the result of resolving a task query against a block list.
type Match struct {
	Block *domain.TaskBlock
	Index int
	Tier  Tier
	Score int // word overlap, only for TierWordOverlap
}

// MatchTask resolves a free-form task query to a block. Tiers are tried in
// order and the first hit wins. ok is false only when blocks is empty.
func MatchTask(blocks []domain.TaskBlock, query string) (Match, bool) {
	if len(blocks) == 0 {
		return Match{}, false
	}

	q := normalize(query)
	if q != "" {
		if i := indexWhere(blocks, func(b *domain.TaskBlock) bool {
			return normalize(b.TaskName) == q
		}); i >= 0 {
			return Match{Block: &blocks[i], Index: i, Tier: TierExact}, true
		}

		if i := indexWhere(blocks, func(b *domain.TaskBlock) bool {
			name := normalize(b.TaskName)
			return name != "" && (strings.Contains(name, q) || strings.Contains(q, name))
		}); i >= 0 {
			return Match{Block: &blocks[i], Index: i, Tier: TierSubstring}, true
		}

		if i := indexWhere(blocks, func(b *domain.TaskBlock) bool {
			return strings.Contains(strings.ToLower(b.VariantPhrases), q)
		}); i >= 0 {
			return Match{Block: &blocks[i], Index: i, Tier: TierVariant}, true
		}

		if i, score := bestOverlap(blocks, q); score >= minWordOverlap {
			return Match{Block: &blocks[i], Index: i, Tier: TierWordOverlap, Score: score}, true
		}
	}

	return Match{Block: &blocks[0], Index: 0, Tier: TierDefault}, true
}

func indexWhere(blocks []domain.TaskBlock, pred func(*domain.TaskBlock) bool) int {
	for i := range blocks {
		if pred(&blocks[i]) {
			return i
		}
	}
	return -1
}

// bestOverlap returns the block sharing the most words with q. Ties keep
// the earliest block.
func bestOverlap(blocks []domain.TaskBlock, q string) (int, int) {
	queryWords := wordSet(q)
	best, bestScore := -1, 0
	for i := range blocks {
		score := 0
		for w := range wordSet(blocks[i].TaskName) {
			if _, ok := queryWords[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// wordSet tokenizes s into lowercase alphanumeric words.
func wordSet(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

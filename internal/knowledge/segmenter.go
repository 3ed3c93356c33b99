// Package knowledge turns domain documents into task blocks and answers
// lookups against them: segmentation, the domain catalog and cache, task
// matching and diagnostic section rendering.
package knowledge

import (
	"strings"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// TaskMarker starts a new block. The task name follows on the same line.
const TaskMarker = "TASK:"

// part is a sub-section of a task block, in canonical document order.
type part int

const (
	partNone part = iota
	partVariants
	partAdjacent
	partProblems
	partOpportunities
	partStrategies
	partBridge
)

// Segment splits document text into task blocks in document order.
// It is a sequential scanner: each line is either a task marker, the next
// expected sub-marker, or content for the current sub-section.
func Segment(text string) []domain.TaskBlock {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		blocks []domain.TaskBlock
		cur    *blockBuilder
	)

	flush := func() {
		if cur == nil {
			return
		}
		if b := cur.build(); b.TaskName != "" {
			blocks = append(blocks, b)
		}
		cur = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, TaskMarker) {
			flush()
			cur = newBlockBuilder(strings.TrimSpace(strings.TrimPrefix(trimmed, TaskMarker)))
			cur.raw = append(cur.raw, line)
			continue
		}
		if cur == nil {
			// preamble
			continue
		}
		cur.raw = append(cur.raw, line)

		if p, rest, ok := matchSubMarker(trimmed); ok && p > cur.at {
			cur.at = p
			if rest != "" {
				cur.parts[p] = append(cur.parts[p], rest)
			}
			continue
		}
		if cur.at != partNone {
			cur.parts[cur.at] = append(cur.parts[cur.at], line)
		}
	}
	flush()

	return blocks
}

type blockBuilder struct {
	name  string
	at    part
	parts map[part][]string
	raw   []string
}

func newBlockBuilder(name string) *blockBuilder {
	return &blockBuilder{name: name, parts: make(map[part][]string)}
}

func (b *blockBuilder) text(p part) string {
	return strings.TrimSpace(strings.Join(b.parts[p], "\n"))
}

func (b *blockBuilder) build() domain.TaskBlock {
	return domain.TaskBlock{
		TaskName:         b.name,
		VariantPhrases:   b.text(partVariants),
		AdjacentTerms:    b.text(partAdjacent),
		Problems:         b.text(partProblems),
		Opportunities:    b.text(partOpportunities),
		Strategies:       b.text(partStrategies),
		DiagnosticBridge: b.text(partBridge),
		RawBlock:         strings.TrimSpace(strings.Join(b.raw, "\n")),
	}
}

// matchSubMarker recognizes a sub-section header line. It returns the part,
// the text following the header's colon (if any) and whether it matched.
//
// Accepted headers: "5 Variants:", "5 Adjacent Terms:", "SECTION 1 — Problems:"
// through "SECTION 4 — RCA Bridge:". Case-insensitive; the leading count of
// the first two is optional.
func matchSubMarker(line string) (part, string, bool) {
	lower := strings.ToLower(line)

	if rest, ok := strings.CutPrefix(lower, "section "); ok {
		rest = strings.TrimLeft(rest, " ")
		if len(rest) == 0 || rest[0] < '1' || rest[0] > '4' {
			return partNone, "", false
		}
		if len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9' {
			return partNone, "", false
		}
		p := partProblems + part(rest[0]-'1')
		return p, afterColon(line), true
	}

	head := strings.TrimLeft(lower, "0123456789 ")
	switch {
	case strings.HasPrefix(head, "variants") && strings.Contains(head, ":"):
		return partVariants, afterColon(line), true
	case strings.HasPrefix(head, "adjacent terms") && strings.Contains(head, ":"):
		return partAdjacent, afterColon(line), true
	}
	return partNone, "", false
}

func afterColon(line string) string {
	_, rest, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

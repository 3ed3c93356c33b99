package knowledge

import (
	"strings"
	"unicode/utf8"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

const (
	// MaxSectionItems caps the items rendered per section.
	MaxSectionItems = 8
	// minItemLength drops shorter lines as noise.
	minItemLength = 15
)

type sectionSpec struct {
	key    domain.SectionKey
	label  string
	prompt string
	text   func(*domain.TaskBlock) string
}

// Rendering order is fixed: problems, diagnostic bridge, opportunities.
var sectionSpecs = []sectionSpec{
	{
		key:    domain.SectionProblems,
		label:  "Problem Areas",
		prompt: "Which of these problem areas best describes your current challenge?",
		text:   func(b *domain.TaskBlock) string { return b.Problems },
	},
	{
		key:    domain.SectionDiagnosticBridge,
		label:  "Diagnostic Signals",
		prompt: "Which of these symptoms are you experiencing?",
		text:   func(b *domain.TaskBlock) string { return b.DiagnosticBridge },
	},
	{
		key:    domain.SectionOpportunities,
		label:  "Growth Opportunities",
		prompt: "Which of these opportunities would be most valuable for your situation?",
		text:   func(b *domain.TaskBlock) string { return b.Opportunities },
	},
}

// BuildSections renders the user-facing sections of a matched block.
// Sections without qualifying lines are skipped.
func BuildSections(block *domain.TaskBlock) []domain.DiagnosticSection {
	if block == nil {
		return nil
	}

	var sections []domain.DiagnosticSection
	for _, spec := range sectionSpecs {
		lines := qualifyingLines(spec.text(block))
		sec := domain.DiagnosticSection{
			Key:            spec.key,
			Label:          spec.label,
			Prompt:         spec.prompt,
			AllowsFreeText: true,
		}

		if spec.key == domain.SectionDiagnosticBridge {
			for _, line := range lines {
				item := ParseBridgeLine(line)
				if item.Symptom == "" {
					continue
				}
				sec.Items = append(sec.Items, item.Symptom)
				sec.Bridge = append(sec.Bridge, item)
			}
		} else {
			sec.Items = lines
		}

		if len(sec.Items) > MaxSectionItems {
			sec.Items = sec.Items[:MaxSectionItems]
		}
		if len(sec.Bridge) > MaxSectionItems {
			sec.Bridge = sec.Bridge[:MaxSectionItems]
		}
		if len(sec.Items) == 0 {
			continue
		}
		sections = append(sections, sec)
	}
	return sections
}

// qualifyingLines splits raw section text into trimmed lines longer than
// minItemLength characters, keeping document order.
func qualifyingLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > minItemLength {
			out = append(out, line)
		}
	}
	return out
}

const quoteChars = "\"'“”‘’"

// ParseBridgeLine decomposes `"symptom" → metric → root area`. A line with
// one arrow leaves RootArea empty; a line without arrows is all symptom.
// The ASCII arrow "->" is accepted as well.
func ParseBridgeLine(line string) domain.BridgeItem {
	raw := strings.TrimSpace(line)
	parts := strings.Split(strings.ReplaceAll(raw, "->", "→"), "→")

	clean := func(s string) string {
		return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), quoteChars))
	}

	item := domain.BridgeItem{Raw: raw}
	switch {
	case len(parts) >= 3:
		item.Symptom = clean(parts[0])
		item.Metric = clean(parts[1])
		item.RootArea = clean(parts[2])
	case len(parts) == 2:
		item.Symptom = clean(parts[0])
		item.Metric = clean(parts[1])
	default:
		item.Symptom = raw
	}
	return item
}

// Diagnose matches task against blocks and renders the matched block.
// It returns nil when blocks is empty.
func Diagnose(blocks []domain.TaskBlock, task string) *domain.Diagnostic {
	m, ok := MatchTask(blocks, task)
	if !ok {
		return nil
	}
	return &domain.Diagnostic{
		MatchedTask: m.Block.TaskName,
		Tier:        string(m.Tier),
		Sections:    BuildSections(m.Block),
		Strategies:  m.Block.Strategies,
		Block:       m.Block,
	}
}

package diagnostic

import (
	"fmt"
	"strings"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// questionsFor turns rendered sections into one dynamic question per item,
// in section order.
func questionsFor(d *domain.Diagnostic) []domain.DynamicQuestion {
	if d.Empty() {
		return nil
	}

	var out []domain.DynamicQuestion
	for _, sec := range d.Sections {
		for i, item := range sec.Items {
			q := domain.DynamicQuestion{
				Section:        sec.Key,
				SectionLabel:   sec.Label,
				Prompt:         sec.Prompt,
				Item:           item,
				AllowsFreeText: sec.AllowsFreeText,
			}
			if sec.Key == domain.SectionDiagnosticBridge && i < len(sec.Bridge) {
				b := sec.Bridge[i]
				q.Bridge = &b
			}
			out = append(out, q)
		}
	}
	return out
}

const genericSectionLabel = "Getting Started"

// fallbackQuestions is the generic set used when the domain or task has no
// structured document content.
func fallbackQuestions(task string) []domain.DynamicQuestion {
	subject := strings.ToLower(strings.TrimSpace(task))
	if subject == "" {
		subject = "this"
	}

	generic := func(prompt string, options ...string) domain.DynamicQuestion {
		return domain.DynamicQuestion{
			Section:        domain.SectionGeneric,
			SectionLabel:   genericSectionLabel,
			Prompt:         prompt,
			Options:        options,
			AllowsFreeText: true,
		}
	}

	return []domain.DynamicQuestion{
		generic(fmt.Sprintf("What tools or processes are you currently using for %s?", subject),
			"Manual processes only",
			"Basic tools (spreadsheets, email)",
			"Some specialized software",
			"Advanced/enterprise tools",
		),
		generic("What's your team size working on this?",
			"Just me (solopreneur)",
			"Small team (2-5 people)",
			"Medium team (6-20 people)",
			"Large team (20+ people)",
		),
		generic("What's your primary goal in the next 30 days?",
			"Quick wins - start seeing results fast",
			"Build a sustainable system/process",
			"Scale what's already working",
			"Fix something that's broken",
		),
	}
}

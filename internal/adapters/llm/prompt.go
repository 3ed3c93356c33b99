package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

const recommendationSystemPrompt = `
You are an expert AI tools consultant. Based on the user's complete profile (their goals, domain, task, and answers to follow-up questions), recommend the BEST AI tools for their specific situation.

You have domain expertise context (PERSONA CONTEXT) to inform your recommendations.

For each recommendation, explain WHY it's specifically good for this user's situation based on their answers.

OUTPUT FORMAT (strict JSON):
{
  "extensions": [
    {"name": "Tool Name", "description": "What it does", "url": "https://...", "free": true, "why_recommended": "Specific reason based on user's answers"}
  ],
  "gpts": [
    {"name": "GPT Name", "description": "What it does", "url": "https://chat.openai.com/g/...", "rating": "4.8", "why_recommended": "Specific reason based on user's answers"}
  ],
  "companies": [
    {"name": "Company Name", "description": "What they do", "url": "https://...", "why_recommended": "Specific reason based on user's answers"}
  ],
  "summary": "A 2-3 sentence personalized summary of why these tools were recommended"
}

Rules:
- Recommend 2-4 items per category.
- Every recommendation must have a specific "why_recommended" tied to the user's answers.
- Prioritize free/freemium tools when the user seems budget-conscious.
- Prioritize ease of use for solopreneurs or small teams, scalability for larger teams.
- Only recommend REAL tools that actually exist.

Return ONLY valid JSON.
`

// Prompt represents the system prompt + the content to send as "user".
type Prompt struct {
	System string
	User   string
}

// BuildRecommendationPrompt renders the interview and the matched task
// block into the recommendation prompt.
func BuildRecommendationPrompt(req domain.RecommendationRequest) Prompt {
	var qa strings.Builder
	for i, a := range req.Answers {
		typ := a.Type
		if typ == "" {
			typ = domain.QuestionStatic
		}
		fmt.Fprintf(&qa, "Q%d (%s): %s\n", i+1, typ, a.Question)
		fmt.Fprintf(&qa, "A%d: %s\n\n", i+1, a.Answer)
	}

	var user strings.Builder
	user.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&user, "- Growth Goal: %s\n", req.OutcomeLabel)
	fmt.Fprintf(&user, "- Domain: %s\n", req.Domain)
	fmt.Fprintf(&user, "- Task: %s\n\n", req.Task)
	user.WriteString("ALL QUESTIONS & ANSWERS:\n")
	user.WriteString(qa.String())
	user.WriteString("PERSONA CONTEXT (domain expertise):\n")
	user.WriteString(personaContext(req))
	user.WriteString("\n\nBased on everything above, recommend the most relevant AI tools, Chrome extensions, Custom GPTs, and AI companies for this user's specific situation.")

	return Prompt{
		System: strings.TrimSpace(recommendationSystemPrompt),
		User:   user.String(),
	}
}

func personaContext(req domain.RecommendationRequest) string {
	b := req.TaskContext
	if b == nil {
		return fmt.Sprintf("Domain: %s. Task: %s.", req.Domain, req.Task)
	}
	if b.Problems == "" {
		if b.RawBlock != "" {
			return b.RawBlock
		}
		return fmt.Sprintf("Domain: %s. Task: %s.", req.Domain, req.Task)
	}

	parts := []string{"MATCHED TASK: " + b.TaskName}
	parts = append(parts, "\nDOCUMENTED PROBLEMS:\n"+b.Problems)
	if b.Opportunities != "" {
		parts = append(parts, "\nDOCUMENTED OPPORTUNITIES:\n"+b.Opportunities)
	}
	if b.Strategies != "" {
		parts = append(parts, "\nDOCUMENTED STRATEGIES:\n"+b.Strategies)
	}
	return strings.Join(parts, "\n")
}

// ParseRecommendations decodes the model's JSON answer. Markdown code
// fences around the JSON are tolerated; missing categories become empty.
func ParseRecommendations(raw string) (*domain.RecommendationSet, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var set domain.RecommendationSet
	if err := json.Unmarshal([]byte(text), &set); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if set.Extensions == nil {
		set.Extensions = []domain.Recommendation{}
	}
	if set.GPTs == nil {
		set.GPTs = []domain.Recommendation{}
	}
	if set.Companies == nil {
		set.Companies = []domain.Recommendation{}
	}
	return &set, nil
}

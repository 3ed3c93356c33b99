package llm

import (
	"context"
	"fmt"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// MockRecommender returns a fixed, request-derived set without calling a
// model. Used in local mode and tests.
type MockRecommender struct{}

func NewMockRecommender() *MockRecommender {
	return &MockRecommender{}
}

func (m *MockRecommender) Recommend(_ context.Context, req domain.RecommendationRequest) (*domain.RecommendationSet, error) {
	free := true
	task := req.Task
	if req.TaskContext != nil && req.TaskContext.TaskName != "" {
		task = req.TaskContext.TaskName
	}
	why := fmt.Sprintf("Fits %q in %s", task, req.Domain)

	return &domain.RecommendationSet{
		Extensions: []domain.Recommendation{
			{Name: "Workflow Helper", Description: "Browser extension for repetitive steps", Category: "extension", Free: &free, WhyRecommended: why},
		},
		GPTs: []domain.Recommendation{
			{Name: "Task Coach GPT", Description: "Custom GPT that drafts a plan for the task", Category: "gpt", Rating: "4.5", WhyRecommended: why},
		},
		Companies: []domain.Recommendation{
			{Name: "Automation Partners", Description: "Consultancy for small teams", Category: "company", WhyRecommended: why},
		},
		Summary: fmt.Sprintf("Based on %d answers about %q, start with lightweight tools and expand once the workflow is stable.", len(req.Answers), task),
	}, nil
}

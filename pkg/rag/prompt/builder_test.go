package prompt

import (
	"strings"
	"testing"

	"rebuttal-agent-be/internal/constant"
	"rebuttal-agent-be/pkg/llm"
	"rebuttal-agent-be/pkg/openreview"

	"github.com/stretchr/testify/assert"
)

func sampleReviews() []openreview.Review {
	return []openreview.Review{
		{
			ID:        "r1",
			Category:  "Official_Review",
			CreatedAt: "Mon Nov 13 00:00:00 2023",
			Content: map[string]string{
				"review":     "The method is novel.",
				"weaknesses": "Evaluation is limited to one dataset.",
			},
		},
	}
}

func TestClassify_TruthTable(t *testing.T) {
	reviews := sampleReviews()

	tests := []struct {
		name     string
		reviews  []openreview.Review
		excerpts string
		expected Kind
	}{
		{"neither", nil, "", KindGeneral},
		{"excerpts only", nil, "some excerpt", KindExcerptsOnly},
		{"reviews only", reviews, "", KindReviewsOnly},
		{"both", reviews, "some excerpt", KindFullRebuttal},
		{"no-match sentinel counts as present", reviews, constant.RetrievalNoMatchSentinel, KindFullRebuttal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.reviews, tt.excerpts))
		})
	}
}

func TestRender_GeneralTemplate(t *testing.T) {
	ctx := NewContext("help me plan", nil, "", nil)
	out := ctx.Render()

	assert.Contains(t, out, "help me plan")
	assert.Contains(t, out, "No reviewer comments or paper excerpts are available")
	assert.Contains(t, out, "(no prior conversation)")
	assert.NotContains(t, out, "reviews from the conference")
	assert.NotContains(t, out, "excerpts from")
}

func TestRender_ExcerptsOnlyTemplate(t *testing.T) {
	ctx := NewContext("what did we measure?", nil, "Result: 99% accuracy", nil)
	out := ctx.Render()

	assert.Contains(t, out, "what did we measure?")
	assert.Contains(t, out, "Result: 99% accuracy")
	assert.Contains(t, out, "excerpts from the author's paper")
	assert.NotContains(t, out, "reviews from the conference")
}

func TestRender_ReviewsOnlyTemplate(t *testing.T) {
	ctx := NewContext("summarize the concerns", sampleReviews(), "", nil)
	out := ctx.Render()

	assert.Contains(t, out, "summarize the concerns")
	assert.Contains(t, out, "reviews from the conference")
	assert.Contains(t, out, "The method is novel.")
	assert.Contains(t, out, "Weaknesses: Evaluation is limited to one dataset.")
	assert.NotContains(t, out, "excerpts from")
}

func TestRender_FullRebuttalTemplate(t *testing.T) {
	ctx := NewContext("address the weaknesses", sampleReviews(), "We also ran CIFAR-100.", nil)
	out := ctx.Render()

	assert.Contains(t, out, "draft a polite and professional point-by-point rebuttal")
	assert.Contains(t, out, "reviews from the conference")
	assert.Contains(t, out, "excerpts from our paper")
	assert.Contains(t, out, "We also ran CIFAR-100.")
	// The rebuttal template is grounded in sources only; the free-form
	// request is not injected.
	assert.NotContains(t, out, "address the weaknesses")
}

func TestRender_InjectsHistory(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	ctx := NewContext("follow up", nil, "", history)
	out := ctx.Render()

	assert.Contains(t, out, "user: earlier question")
	assert.Contains(t, out, "assistant: earlier answer")
}

func TestRenderReviews_StableFieldOrderAndLabels(t *testing.T) {
	reviews := []openreview.Review{{
		ID:        "r9",
		CreatedAt: "Not available",
		Content: map[string]string{
			"questions_and_comments": "Why k=5?",
			"decision":               "Accept",
		},
	}}
	out := RenderReviews(reviews)

	assert.Contains(t, out, "### Reply r9")
	assert.Contains(t, out, "Date: Not available")
	assert.Contains(t, out, "Decision: Accept")
	assert.Contains(t, out, "Questions And Comments: Why k=5?")
	// Alphabetical field order keeps renders deterministic.
	assert.Less(t, strings.Index(out, "Decision:"), strings.Index(out, "Questions And Comments:"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "general", KindGeneral.String())
	assert.Equal(t, "excerpts_only", KindExcerptsOnly.String())
	assert.Equal(t, "reviews_only", KindReviewsOnly.String())
	assert.Equal(t, "full_rebuttal", KindFullRebuttal.String())
}

package prompt

import (
	"fmt"
	"sort"
	"strings"

	"rebuttal-agent-be/internal/constant"
	"rebuttal-agent-be/pkg/llm"
	"rebuttal-agent-be/pkg/openreview"
)

// Kind selects one of the four prompt templates.
type Kind int

const (
	KindGeneral Kind = iota
	KindExcerptsOnly
	KindReviewsOnly
	KindFullRebuttal
)

func (k Kind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindExcerptsOnly:
		return "excerpts_only"
	case KindReviewsOnly:
		return "reviews_only"
	case KindFullRebuttal:
		return "full_rebuttal"
	default:
		return "unknown"
	}
}

// Classify picks the template by which sources the pipeline collected.
// The no-match retrieval sentinel is non-empty and therefore counts as
// excerpts being present.
func Classify(reviews []openreview.Review, excerpts string) Kind {
	hasReviews := len(reviews) > 0
	hasExcerpts := excerpts != ""

	switch {
	case hasReviews && hasExcerpts:
		return KindFullRebuttal
	case hasReviews:
		return KindReviewsOnly
	case hasExcerpts:
		return KindExcerptsOnly
	default:
		return KindGeneral
	}
}

// Context is everything one prompt render needs.
type Context struct {
	Kind     Kind
	Query    string
	Reviews  []openreview.Review
	Excerpts string
	History  []llm.Message
}

func NewContext(query string, reviews []openreview.Review, excerpts string, history []llm.Message) Context {
	return Context{
		Kind:     Classify(reviews, excerpts),
		Query:    query,
		Reviews:  reviews,
		Excerpts: excerpts,
		History:  history,
	}
}

// Render produces the final prompt string for the selected template.
func (c Context) Render() string {
	history := renderHistory(c.History)

	switch c.Kind {
	case KindFullRebuttal:
		return fmt.Sprintf(constant.AgentPromptFullRebuttal, history, RenderReviews(c.Reviews), c.Excerpts)
	case KindReviewsOnly:
		return fmt.Sprintf(constant.AgentPromptReviewsOnly, history, RenderReviews(c.Reviews), c.Query)
	case KindExcerptsOnly:
		return fmt.Sprintf(constant.AgentPromptExcerptsOnly, history, c.Excerpts, c.Query)
	default:
		return fmt.Sprintf(constant.AgentPromptGeneral, history, c.Query)
	}
}

// RenderReviews serializes fetched reviews into a readable block, one
// section per reply, content fields in a stable order.
func RenderReviews(reviews []openreview.Review) string {
	if len(reviews) == 0 {
		return ""
	}

	sections := make([]string, 0, len(reviews))
	for _, review := range reviews {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("### Reply %s", review.ID))
		if review.Category != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", review.Category))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Date: %s\n", review.CreatedAt))

		fields := make([]string, 0, len(review.Content))
		for field := range review.Content {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			sb.WriteString(fmt.Sprintf("%s: %s\n", fieldLabel(field), review.Content[field]))
		}
		sections = append(sections, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// fieldLabel turns a content field name into a display label, e.g.
// "questions_and_comments" -> "Questions And Comments".
func fieldLabel(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func renderHistory(history []llm.Message) string {
	if len(history) == 0 {
		return "(no prior conversation)"
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

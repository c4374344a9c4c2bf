package constant

const (
	SessionTurnRoleUser      = "user"
	SessionTurnRoleAssistant = "assistant"

	// Query embeddings use the retrieval task type, chunk embeddings the
	// document task type (Gemini text-embedding-004 task hints).
	EmbeddingTaskTypeQuery    = "RETRIEVAL_QUERY"
	EmbeddingTaskTypeDocument = "RETRIEVAL_DOCUMENT"

	// RetrievalNoMatchSentinel is returned when retrieval ran but found
	// nothing. It is deliberately non-empty so it is distinguishable from
	// the empty string meaning retrieval never ran.
	RetrievalNoMatchSentinel = "No relevant content found in the paper."

	// GenerationFallbackMessage is the rebuttal text delivered when the
	// LLM call fails. The run still completes normally.
	GenerationFallbackMessage = "⚠️ Error: Could not generate the rebuttal due to an LLM failure."

	// ReviewTimestampUnavailable marks replies whose creation date the
	// review platform did not report.
	ReviewTimestampUnavailable = "Not available"

	SessionHistoryWindow = 100

	RetrievalTopK = 5

	// CheckpointCacheTTL is the go-cache lifetime for in-process session
	// checkpoints; the pgvector copy outlives it.
	CheckpointCacheTTLMinutes = 60
)

// Prompt templates. One of the four is selected per run by which of
// {reviews, paper excerpts} the pipeline managed to collect. Slots are
// filled positionally with fmt.Sprintf; each template documents its
// slot order.
const (
	// Slots: conversation history, user query.
	AgentPromptGeneral = `You are a research assistant helping an author during the peer-review process.

No reviewer comments or paper excerpts are available for this request, so answer from the conversation alone.

Conversation so far (use it only if necessary):
---
%s
---

Request:
%s

Respond helpfully and professionally in MARKDOWN format.`

	// Slots: conversation history, paper excerpts, user query.
	AgentPromptExcerptsOnly = `You are a research assistant helping an author during the peer-review process.

Conversation so far:
---
%s
---

Here are relevant excerpts from the author's paper:
---
%s
---

Request:
%s

Answer the request grounded in the excerpts above, in MARKDOWN format. Do not invent reviewer comments; none were provided.`

	// Slots: conversation history, reviewer comments, user query.
	AgentPromptReviewsOnly = `You are a research assistant helping an author during the peer-review process.

Conversation so far:
---
%s
---

Here are the reviews from the conference:
---
%s
---

Request:
%s

Answer the request grounded in the reviews above, in MARKDOWN format. No paper excerpts were available, so do not quote the paper directly.`

	// Slots: conversation history, reviewer comments, paper excerpts.
	AgentPromptFullRebuttal = `You are a research assistant helping to draft a rebuttal for a scientific paper.

Conversation so far:
---
%s
---

Here are the reviews from the conference:
---
%s
---

To address a specific point raised by the reviewers, here are relevant excerpts from our paper:
---
%s
---

Based on the reviews and the provided excerpts, please draft a polite and professional point-by-point rebuttal addressing the reviewers' concerns in MARKDOWN format.`
)

package state

import (
	"rebuttal-agent-be/pkg/llm"
	"rebuttal-agent-be/pkg/openreview"
)

// PipelineState carries one pipeline invocation through its stages.
// Stages receive it by value and return an updated copy; nothing is
// shared between invocations. Each field is written by exactly one
// stage and only read by later ones.
type PipelineState struct {
	ThreadID      string
	Query         string
	DocumentBytes []byte
	SessionID     string

	Reviews           []openreview.Review
	DocumentText      string
	DocumentChunks    []string
	ChunkVectors      [][]float32
	RetrievedExcerpts string
	History           []llm.Message
	Rebuttal          string
}

package services

import (
	"fmt"
	"strings"
)

// DefaultMaxPromptChars bounds the combined prompt size when no budget is
// configured.
const DefaultMaxPromptChars = 12000

const promptHeader = `You are an AI assistant helping with questions about a team's documentation and knowledge base.
Answer the user's question based on the following context from the indexed documents.

If the context doesn't contain enough information to answer the question completely, say so and suggest what additional information might be needed.

Context:
`

const contextSeparator = "\n\n---\n\n"

// PromptBuilder assembles the fixed answer-generation prompt from a
// question and ranked context chunks, keeping the result under a
// character budget.
type PromptBuilder struct {
	maxChars int
}

// NewPromptBuilder creates a prompt builder with the given budget.
// A non-positive budget uses the default.
func NewPromptBuilder(maxChars int) *PromptBuilder {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	return &PromptBuilder{maxChars: maxChars}
}

// Build combines the question with the chunk texts in rank order.
// Context that would push the prompt over budget is trimmed by dropping
// the lowest-ranked chunks whole; only when the single best chunk alone
// exceeds the budget is it truncated.
func (b *PromptBuilder) Build(question string, chunks []contextChunk) string {
	fixed := len(promptHeader) + len("\n\nQuestion: ") + len(question) + len("\n\nAnswer:")
	budget := b.maxChars - fixed

	parts := make([]string, 0, len(chunks))
	used := 0
	for i, ch := range chunks {
		title := ch.Title
		if title == "" {
			title = "Unknown"
		}
		part := fmt.Sprintf("Source %d - %s:\n%s", i+1, title, ch.Text)

		cost := len(part)
		if len(parts) > 0 {
			cost += len(contextSeparator)
		}

		if used+cost > budget {
			if len(parts) == 0 && budget > 0 {
				// A single over-budget chunk is cut rather than losing
				// all context.
				parts = append(parts, part[:budget])
			}
			break
		}

		parts = append(parts, part)
		used += cost
	}

	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString(strings.Join(parts, contextSeparator))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}

// contextChunk is the prompt builder's view of a retrieved chunk.
type contextChunk struct {
	Title string
	Text  string
}

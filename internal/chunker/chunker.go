// Package chunker splits document text into overlapping, bounded-size
// chunks, preferring paragraph and sentence boundaries near the cut point.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// DefaultMaxChars is the default maximum chunk size in characters.
const DefaultMaxChars = 1000

// DefaultOverlapChars is the default overlap between consecutive chunks.
const DefaultOverlapChars = 200

// DefaultMinChars is the default minimum trimmed chunk length; shorter
// windows are dropped rather than embedded.
const DefaultMinChars = 40

// DefaultBoundaryLookback is how far back from the raw cut point a natural
// boundary is searched for.
const DefaultBoundaryLookback = 200

// Chunker splits document content into overlapping chunks.
type Chunker struct {
	maxChars     int
	overlapChars int
	minChars     int
	lookback     int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the maximum chunk size in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapChars = n
		}
	}
}

// WithMinChars sets the minimum trimmed chunk length.
func WithMinChars(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minChars = n
		}
	}
}

// WithBoundaryLookback sets the boundary search distance.
func WithBoundaryLookback(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.lookback = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars:     DefaultMaxChars,
		overlapChars: DefaultOverlapChars,
		minChars:     DefaultMinChars,
		lookback:     DefaultBoundaryLookback,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlapChars >= c.maxChars {
		c.overlapChars = c.maxChars / 4
	}
	if c.lookback >= c.maxChars {
		c.lookback = c.maxChars / 2
	}

	return c
}

// Chunk splits the document content into overlapping windows of at most
// MaxChars, each window after the first starting OverlapChars before the
// previous window's end. Windows whose trimmed length falls below MinChars
// are dropped. Positions are contiguous from zero in document order.
func (c *Chunker) Chunk(doc domain.Document) []domain.Chunk {
	content := doc.Content
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}

	estimated := contentLen/(c.maxChars-c.overlapChars) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		end := start + c.maxChars
		if end >= contentLen {
			end = contentLen
		} else {
			end = c.adjustCut(content, start, end)
		}

		text := content[start:end]
		if len(strings.TrimSpace(text)) >= c.minChars {
			chunks = append(chunks, domain.Chunk{
				ID:            uuid.New().String(),
				DocumentID:    doc.ID,
				DocumentTitle: doc.Title,
				Content:       text,
				Position:      position,
				CharStart:     start,
				CharEnd:       end,
			})
			position++
		}

		if end >= contentLen {
			break
		}

		next := end - c.overlapChars
		if next <= start {
			// Guarantee forward progress even with degenerate settings
			next = start + 1
		}
		start = next
	}

	return chunks
}

// adjustCut moves a raw cut point back to the nearest natural boundary
// within the lookback window: a paragraph break first, then a sentence
// end. Failing both it settles for not splitting a UTF-8 sequence.
// Best effort, not a guarantee.
func (c *Chunker) adjustCut(content string, start, end int) int {
	windowStart := end - c.lookback
	if windowStart < start {
		windowStart = start
	}
	window := content[windowStart:end]

	if idx := strings.LastIndex(window, "\n\n"); idx > 0 {
		return windowStart + idx
	}

	if idx := lastSentenceEnd(window); idx > 0 {
		return windowStart + idx
	}

	for end > start && !utf8.RuneStart(content[end]) {
		end--
	}
	return end
}

// lastSentenceEnd returns the offset just past the last sentence-ending
// punctuation in s, or -1.
func lastSentenceEnd(s string) int {
	best := -1
	for _, sep := range []string{". ", ".\n", "! ", "? ", "!\n", "?\n"} {
		if idx := strings.LastIndex(s, sep); idx >= 0 && idx+1 > best {
			best = idx + 1
		}
	}
	return best
}

package domain

// Document is the flattened text of a single source page.
// It is immutable once fetched for a given indexing pass.
type Document struct {
	// ID is the source-assigned identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full flattened text, independent of whatever
	// block or markup structure the source used.
	Content string

	// Revision is the source's version marker, when one exists.
	Revision string
}

// Chunk is a bounded contiguous slice of a document's text, the unit of
// embedding and retrieval. Identity is (DocumentID, Position); a chunk is
// never mutated after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// DocumentTitle is carried for answer attribution.
	DocumentTitle string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document,
	// contiguous from zero.
	Position int

	// CharStart and CharEnd are the byte offsets of this chunk
	// within the document content.
	CharStart int
	CharEnd   int
}

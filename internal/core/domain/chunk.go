package domain

// Metadata keys attached to policy chunks.
const (
	// MetadataSource is the path of the PDF the chunk was extracted from.
	MetadataSource = "source"

	// MetadataPage is the 1-based page the chunk was extracted from.
	MetadataPage = "page"
)

// DefaultNamespace is the vector store partition used when none is given.
const DefaultNamespace = "__default__"

// Chunk is a bounded slice of policy text prepared for embedding.
// Content is never empty.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the source page.
	Position int

	// Metadata contains source information (see MetadataSource, MetadataPage).
	Metadata map[string]any
}

// Source returns the source path recorded in the chunk metadata.
func (c Chunk) Source() string {
	if c.Metadata == nil {
		return ""
	}
	s, _ := c.Metadata[MetadataSource].(string)
	return s
}

// RetrievedChunk is a chunk returned by a similarity search.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Rank is the 1-based position in the result list.
	Rank int

	// Score is the backend similarity score; higher is more relevant.
	Score float64
}

// PageText is the extracted text of a single PDF page.
type PageText struct {
	// Source is the path of the file the page belongs to.
	Source string

	// Page is the 1-based page number.
	Page int

	// Text is the plain text content of the page.
	Text string
}

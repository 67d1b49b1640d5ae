package models

// Metadata is the free-form payload stored alongside each chunk. Keys in use:
// chunkIndex, totalChunks, sourceFileName, sourceType.
type Metadata map[string]any

// Document is one ingested unit of content (a file, a scraped URL, or pasted
// text) owned by the platform's data-source layer. The RAG core reads it and
// flips its processing flags; it never creates or deletes documents.
type Document struct {
	ID         string
	TenantID   string
	SourceType string // "file", "url" or "text"
	FileName   string
	Content    string
	Processed  bool
	Vectorized bool
}

// Chunk is the atomic unit of retrieval: one embedded slice of a document.
// Provider and Dim record which embedding backend produced the vector, so a
// query embedded with a different backend can be detected instead of silently
// ranked against incomparable vectors.
type Chunk struct {
	ID         string
	DocumentID string
	TenantID   string
	Content    string
	Embedding  []float32
	Provider   string
	Dim        int
	Metadata   Metadata
}

// SearchResult is one ranked hit. The raw embedding never leaves the store
// layer; callers get content, score and metadata only.
type SearchResult struct {
	Content    string
	Similarity float32
	Metadata   Metadata
}

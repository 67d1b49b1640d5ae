// Package chunker splits document text into overlapping, boundary-aware
// segments sized for independent embedding.
package chunker

import "strings"

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200

	// MinChunkLength drops stray fragments (trailing whitespace, orphaned
	// headings) that would embed as noise.
	MinChunkLength = 50

	// boundaryFraction is how far into a window a sentence boundary must sit
	// before the chunk is truncated there instead of at the raw character cut.
	boundaryFraction = 0.7
)

type Config struct {
	ChunkSize    int
	ChunkOverlap int
	MinLength    int
}

type Splitter struct {
	config Config
}

func New() *Splitter {
	return NewWithConfig(Config{})
}

func NewWithConfig(config Config) *Splitter {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.ChunkOverlap <= 0 {
		config.ChunkOverlap = DefaultOverlap
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 5
	}
	if config.MinLength <= 0 {
		config.MinLength = MinChunkLength
	}
	return &Splitter{config: config}
}

// Split walks text in windows of ChunkSize characters, each window starting
// ChunkOverlap characters before the previous one ended. Windows that do not
// reach the end of the input are truncated at the last sentence-terminal
// period or newline, provided that boundary falls past boundaryFraction of
// the window. Chunks shorter than MinLength are discarded.
//
// Split is a pure function of its input: no I/O, no shared state.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	size := s.config.ChunkSize
	overlap := s.config.ChunkOverlap

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end > len(text) {
			end = len(text)
		}

		if end < len(text) {
			window := text[start:end]
			boundary := lastBoundary(window)
			if float64(boundary) > float64(size)*boundaryFraction {
				end = start + boundary + 1
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) >= s.config.MinLength {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// lastBoundary returns the byte index of the last period or newline in
// window, or -1 when it contains neither.
func lastBoundary(window string) int {
	period := strings.LastIndexByte(window, '.')
	newline := strings.LastIndexByte(window, '\n')
	if period > newline {
		return period
	}
	return newline
}

package search

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultMaxChars bounds the assembled context block. Sized so the
	// injected context leaves room for the rest of the prompt.
	DefaultMaxChars = 2500

	// Context retrieval favors recall over precision: fewer results than a
	// user-facing search, but a looser threshold.
	contextLimit     = 4
	contextThreshold = 0.3

	blockSeparator = "\n\n"
)

// Context runs a recall-oriented search and concatenates the hits, best
// first, into one block per result, separated by blank lines. Each block is
// prefixed with its source file name when the chunk metadata carries one. A
// block that would push the total past maxChars ends assembly: blocks are
// included whole or not at all, never truncated. When nothing clears the
// threshold the result is "", which callers treat as "answer from general
// knowledge".
func (e *Engine) Context(ctx context.Context, tenantID, query string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	results, err := e.Search(ctx, tenantID, query, contextLimit, contextThreshold)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range results {
		block := r.Content
		if name, ok := r.Metadata["sourceFileName"].(string); ok && name != "" {
			block = fmt.Sprintf("[%s]\n%s", name, r.Content)
		}

		need := len(block)
		if b.Len() > 0 {
			need += len(blockSeparator)
		}
		if b.Len()+need > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString(blockSeparator)
		}
		b.WriteString(block)
	}
	return b.String(), nil
}

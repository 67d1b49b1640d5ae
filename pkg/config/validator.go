package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Chunker.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_size",
			Message: "chunk_size must be positive",
		})
	}
	if c.Chunker.ChunkOverlap < 0 || c.Chunker.ChunkOverlap >= c.Chunker.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "chunker.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}
	if c.Chunker.MinLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.min_length",
			Message: "min_length must be positive",
		})
	}

	if c.Search.Limit < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.limit",
			Message: "limit must be positive",
		})
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "search.threshold",
			Message: "threshold must be between 0 and 1",
		})
	}

	if c.Context.MaxChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "context.max_chars",
			Message: "max_chars must be positive",
		})
	}

	if c.Fetcher.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.rate_limit",
			Message: "rate_limit must be positive",
		})
	}
	if c.Fetcher.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "fetcher.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	return errors
}

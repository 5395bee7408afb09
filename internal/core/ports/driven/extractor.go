package driven

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// TextExtractor extracts plain text from a document file, page by page.
type TextExtractor interface {
	// Extract returns one entry per page. Pages without text may be omitted.
	Extract(ctx context.Context, path string) ([]domain.PageText, error)
}

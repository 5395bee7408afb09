// Package chunker provides a recursive character text splitter.
//
// Text is split on the first separator in the hierarchy that occurs in it
// (paragraph, line, word, character). Pieces that still exceed the chunk
// size are split again with the next separator; small pieces are merged
// back together up to the chunk size, carrying up to the overlap worth of
// trailing pieces into the next chunk. Lengths are measured in characters
// (runes), and chunk boundaries do not respect sentences or tokens.
package chunker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// ErrOverlapTooLarge is returned when the overlap is not smaller than the chunk size.
var ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

// DefaultSeparators is the separator hierarchy tried in order.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Processor splits page text into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = seps
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrOverlapTooLarge, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the page text into chunks.
// Input chunks are ignored; this processor creates new chunks from the page text.
func (p *Processor) Process(_ context.Context, page *domain.PageText, _ []domain.Chunk) ([]domain.Chunk, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	texts := p.Split(page.Text)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  text,
			Position: i,
			Metadata: map[string]any{
				domain.MetadataSource: page.Source,
				domain.MetadataPage:   page.Page,
			},
		})
	}

	return chunks, nil
}

// Split returns the non-empty chunk texts for the given text.
func (p *Processor) Split(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	var final []string

	// Pick the first separator present in the text.
	separator := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			rest = separators[i+1:]
			break
		}
	}

	var good []string
	for _, s := range splitKeepSeparator(text, separator) {
		if runeLen(s) < p.chunkSize {
			good = append(good, s)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, s)
		} else {
			final = append(final, p.split(s, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, p.merge(good)...)
	}

	return final
}

// merge combines small splits into chunks no longer than chunkSize,
// keeping up to overlap characters of trailing splits for the next chunk.
// Separators are already attached to the splits, so they are joined directly.
func (p *Processor) merge(splits []string) []string {
	var docs []string
	var current []string
	total := 0

	for _, d := range splits {
		n := runeLen(d)
		if total+n > p.chunkSize && len(current) > 0 {
			if doc := join(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, d)
		total += n
	}

	if doc := join(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepSeparator splits text on sep, attaching each separator to the
// start of the piece that follows it. An empty separator splits into characters.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, len(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, part := range parts[1:] {
		out = append(out, sep+part)
	}
	return out
}

func join(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

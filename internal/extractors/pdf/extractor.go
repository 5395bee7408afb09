// Package pdf extracts page text from PDF files.
//
// Text is read with a pure Go parser. When the parser fails, or finds no
// text at all, the extractor falls back to poppler's pdftotext if it is
// installed.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler-utils")

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor reads PDF files page by page.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a PDF extractor that shells out to pdftotext as a fallback.
func New() *Extractor {
	return &Extractor{runner: execRunner{}, lookPath: exec.LookPath}
}

// NewWithRunner creates a PDF extractor with a custom fallback runner.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner, lookPath: exec.LookPath}
}

// CheckAvailable reports whether pdftotext is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is optional and used for PDFs the built-in parser cannot read.
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}

// Extract returns the text of every page that has any. Page numbers are
// 1-based and follow the document order.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.PageText, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open pdf %s: %w", path, domain.ErrInvalidInput)
	}

	pages, parseErr := e.parse(ctx, path)
	if parseErr == nil && len(pages) > 0 {
		return pages, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if e.lookPath != nil {
		if _, err := e.lookPath("pdftotext"); err == nil {
			logger.Debug("pdf parser found no text in %s, trying pdftotext", path)
			return e.runPDFToText(ctx, path)
		}
	}

	if parseErr != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, parseErr)
	}
	return nil, nil
}

func (e *Extractor) parse(ctx context.Context, path string) ([]domain.PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}

	var pages []domain.PageText
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.PageText{Source: path, Page: i, Text: text})
	}
	return pages, nil
}

func (e *Extractor) runPDFToText(ctx context.Context, path string) ([]domain.PageText, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return splitPages(path, out), nil
}

// splitPages turns pdftotext output into per-page entries.
func splitPages(path string, out []byte) []domain.PageText {
	var pages []domain.PageText
	for i, chunk := range bytes.Split(out, []byte(pageBreak)) {
		text := string(chunk)
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.PageText{Source: path, Page: i + 1, Text: text})
	}
	return pages
}

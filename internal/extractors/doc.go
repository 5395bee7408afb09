// Package extractors provides implementations of the TextExtractor port.
// Each extractor turns a document file into per-page plain text ready for
// the postprocessor pipeline.
package extractors

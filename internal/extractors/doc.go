// Package extractors routes raw document bytes to the format-specific
// text extractor. Each format lives in its own subpackage:
//
//   - pdf: page-wise PDF text extraction
//   - pptx: slide and shape text from Office Open XML presentations
//
// Extractors are tolerant: individual pages or slides that fail are
// skipped and counted, never fatal. An extractor fails only when the
// entire document cannot be opened.
package extractors

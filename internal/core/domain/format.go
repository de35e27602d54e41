package domain

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies a supported document format.
type Format string

const (
	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"

	// FormatPPTX is an Office Open XML presentation.
	FormatPPTX Format = "pptx"

	// FormatUnknown is returned when a format cannot be determined.
	FormatUnknown Format = ""
)

// Magic byte prefixes used for content sniffing.
var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat determines the document format from the filename extension
// and the leading bytes of the content. The extension selects the expected
// format; the magic bytes confirm the content actually matches it.
//
// Returns ErrUnsupportedFormat for extensions askdoc does not handle and
// ErrCorruptDocument when the content is empty or its magic bytes
// contradict the extension.
func DetectFormat(filename string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var want Format
	switch ext {
	case ".pdf":
		want = FormatPDF
	case ".pptx":
		want = FormatPPTX
	default:
		return FormatUnknown, ErrUnsupportedFormat
	}

	if len(data) == 0 {
		return FormatUnknown, ErrCorruptDocument
	}

	switch want {
	case FormatPDF:
		if !bytes.HasPrefix(data, pdfMagic) {
			return FormatUnknown, ErrCorruptDocument
		}
	case FormatPPTX:
		// PPTX is a ZIP container.
		if !bytes.HasPrefix(data, zipMagic) {
			return FormatUnknown, ErrCorruptDocument
		}
	}

	return want, nil
}

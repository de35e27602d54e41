// Package pptx extracts plain text from Office Open XML presentations.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// slidePattern matches slide parts inside the archive, capturing the
// slide number for ordering.
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extractor handles PPTX documents.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPPTX}
}

// Extract concatenates the text of every text-bearing shape, slides in
// numeric order and shapes in document order, which follows the slide's
// layout/z-order. Grouped shapes are covered because their text runs
// nest inside the same XML tree. Slides that fail to parse are skipped
// and counted; empty slides contribute nothing.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrCorruptDocument
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pptx archive: %w", domain.ErrCorruptDocument)
	}

	slides := slideFiles(reader)
	if len(slides) == 0 {
		// A ZIP without slide parts is not a presentation.
		return nil, fmt.Errorf("no slides found: %w", domain.ErrCorruptDocument)
	}

	var text strings.Builder
	skipped := 0

	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slideText, err := extractSlideText(slide.file)
		if err != nil {
			skipped++
			continue
		}

		if slideText != "" {
			text.WriteString(slideText)
			if !strings.HasSuffix(slideText, "\n") {
				text.WriteString("\n")
			}
		}
	}

	return &driven.ExtractResult{
		Text:         text.String(),
		PagesSkipped: skipped,
	}, nil
}

// slideEntry pairs a slide part with its number for sorting.
type slideEntry struct {
	number int
	file   *zip.File
}

// slideFiles returns the slide parts in numeric order. Archive entry
// order is not reliable for slide order.
func slideFiles(reader *zip.Reader) []slideEntry {
	var slides []slideEntry
	for _, file := range reader.File {
		m := slidePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{number: n, file: file})
	}

	sort.Slice(slides, func(i, j int) bool {
		return slides[i].number < slides[j].number
	})
	return slides
}

// extractSlideText parses one slide part and collects its text runs.
func extractSlideText(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open slide part: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read slide part: %w", err)
	}

	return parseSlideXML(content)
}

// parseSlideXML walks the slide XML token stream collecting the
// character data of every <a:t> run, in document order. Paragraph ends
// become newlines so the extracted text keeps its line structure.
func parseSlideXML(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var text strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode slide xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				text.Write(t)
			}
		}
	}

	return strings.TrimSpace(text.String()), nil
}

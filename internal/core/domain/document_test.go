package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{
			name:     "plain filename",
			filename: "report.pdf",
			expected: "report.pdf",
		},
		{
			name:     "uppercase normalised",
			filename: "Quarterly Report.PDF",
			expected: "quarterly-report.pdf",
		},
		{
			name:     "path stripped",
			filename: "/uploads/2024/slides.pptx",
			expected: "slides.pptx",
		},
		{
			name:     "whitespace collapsed",
			filename: "my   deck  final.pptx",
			expected: "my-deck-final.pptx",
		},
		{
			name:     "surrounding whitespace trimmed",
			filename: "  notes.pdf  ",
			expected: "notes.pdf",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewDocumentID(tc.filename))
		})
	}
}

func TestNewDocumentID_OriginIndependent(t *testing.T) {
	// An upload and a blob sync of the same logical file must collide.
	upload := NewDocumentID("Handbook.pdf")
	synced := NewDocumentID("exports/Handbook.pdf")
	assert.Equal(t, upload, synced)
}

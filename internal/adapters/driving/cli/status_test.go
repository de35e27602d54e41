package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

func TestStatusCmd_Healthy(t *testing.T) {
	mock := &mockIngestService{status: &domain.IndexStatus{
		DocumentsIndexed: 3,
		TotalChunks:      42,
		IndexHealthy:     true,
	}}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	out, err := execute(t, "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Documents indexed: 3")
	assert.Contains(t, out, "Total chunks:      42")
	assert.Contains(t, out, "Index health:      ok")
}

func TestStatusCmd_Unhealthy(t *testing.T) {
	mock := &mockIngestService{status: &domain.IndexStatus{IndexHealthy: false}}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	out, err := execute(t, "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Index health:      unhealthy")
}

func TestStatusCmd_Error(t *testing.T) {
	cleanup := setupIngestTest(&mockIngestService{})
	defer cleanup()

	_, err := execute(t, "status")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read status")
}

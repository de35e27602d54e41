package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	requests  []driving.IngestRequest
	ingestErr error

	docs      []domain.Document
	deleteErr error
	deleted   []string

	status *domain.IndexStatus
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.requests = append(m.requests, req)
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	return &driving.IngestResult{
		DocumentID:    domain.NewDocumentID(req.Filename),
		ChunksIndexed: 3,
	}, nil
}

func (m *mockIngestService) Delete(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIngestService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockIngestService) Status(_ context.Context) (*domain.IndexStatus, error) {
	if m.status == nil {
		return nil, errors.New("status unavailable")
	}
	return m.status, nil
}

func setupIngestTest(mock *mockIngestService) func() {
	oldIngest := ingestService
	ingestService = mock
	return func() {
		ingestService = oldIngest
	}
}

func writeTempDoc(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

func TestIngestCmd_IngestsFiles(t *testing.T) {
	mock := &mockIngestService{}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	path := writeTempDoc(t, "Quarterly Report.pdf")

	out, err := execute(t, "ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "quarterly-report.pdf")
	assert.Contains(t, out, "3 chunks")

	if assert.Len(t, mock.requests, 1) {
		assert.Equal(t, "Quarterly Report.pdf", mock.requests[0].Filename)
		assert.Equal(t, domain.OriginUpload, mock.requests[0].Origin)
		assert.NotEmpty(t, mock.requests[0].Data)
	}
}

func TestIngestCmd_MissingFileContinues(t *testing.T) {
	mock := &mockIngestService{}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	good := writeTempDoc(t, "good.pdf")

	out, err := execute(t, "ingest", "/nonexistent/bad.pdf", good)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")
	assert.Contains(t, out, "good.pdf")
	assert.Len(t, mock.requests, 1)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	mock := &mockIngestService{ingestErr: domain.ErrUnsupportedFormat}
	cleanup := setupIngestTest(mock)
	defer cleanup()

	path := writeTempDoc(t, "image.png")

	out, err := execute(t, "ingest", path)

	assert.Error(t, err)
	assert.Contains(t, out, "unsupported")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupIngestTest(nil)
	ingestService = nil
	defer cleanup()

	_, err := execute(t, "ingest", "whatever.pdf")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

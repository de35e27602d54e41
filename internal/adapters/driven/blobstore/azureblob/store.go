// Package azureblob provides a blob store adapter over the Azure Blob
// Storage REST API. It authenticates with a container SAS URL, so no
// account key ever reaches this process.
package azureblob

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second

	// apiVersion is the Azure Storage REST API version sent with every
	// request.
	apiVersion = "2021-08-06"
)

// Store talks to one Azure Blob container through its SAS URL.
type Store struct {
	client       *http.Client
	containerURL *url.URL
}

// listResponse is the container listing XML format.
type listResponse struct {
	Blobs struct {
		Blobs []struct {
			Name       string `xml:"Name"`
			Properties struct {
				ContentLength int64 `xml:"Content-Length"`
			} `xml:"Properties"`
		} `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// NewStore creates a store from a container SAS URL, e.g.
// https://account.blob.core.windows.net/container?sv=...&sig=...
func NewStore(sasURL string, timeout time.Duration) (*Store, error) {
	if sasURL == "" {
		return nil, fmt.Errorf("azureblob: container SAS URL is required")
	}
	u, err := url.Parse(sasURL)
	if err != nil {
		return nil, fmt.Errorf("azureblob: parse SAS URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" || u.Path == "" || u.Path == "/" {
		return nil, fmt.Errorf("azureblob: SAS URL must name a container")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Store{
		client:       &http.Client{Timeout: timeout},
		containerURL: u,
	}, nil
}

// List enumerates the blobs in the container, following continuation
// markers until the listing is exhausted.
func (s *Store) List(ctx context.Context) ([]driven.BlobInfo, error) {
	var blobs []driven.BlobInfo
	marker := ""

	for {
		page, err := s.listPage(ctx, marker)
		if err != nil {
			return nil, err
		}
		for _, blob := range page.Blobs.Blobs {
			blobs = append(blobs, driven.BlobInfo{
				Name: blob.Name,
				Size: blob.Properties.ContentLength,
			})
		}
		if page.NextMarker == "" {
			return blobs, nil
		}
		marker = page.NextMarker
	}
}

func (s *Store) listPage(ctx context.Context, marker string) (*listResponse, error) {
	listURL := *s.containerURL
	query := listURL.Query()
	query.Set("restype", "container")
	query.Set("comp", "list")
	if marker != "" {
		query.Set("marker", marker)
	}
	listURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("azureblob: create list request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azureblob: list blobs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azureblob: read list response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azureblob: list returned status %d: %s", resp.StatusCode, string(body))
	}

	var page listResponse
	if err := xml.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("azureblob: decode list response: %w", err)
	}
	return &page, nil
}

// Fetch downloads one blob's bytes.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.blobURL(name), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("azureblob: create get request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azureblob: get %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("azureblob: %s: %w", name, domain.ErrNotFound)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azureblob: read %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azureblob: get %s returned status %d: %s", name, resp.StatusCode, string(body))
	}
	return body, nil
}

// Put uploads a block blob, overwriting any existing blob of the same
// name.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.blobURL(name), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("azureblob: create put request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(data))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("azureblob: put %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("azureblob: put %s returned status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}

// blobURL builds the SAS URL of one blob inside the container.
func (s *Store) blobURL(name string) string {
	u := *s.containerURL
	u.Path = path.Join(u.Path, name)
	return u.String()
}

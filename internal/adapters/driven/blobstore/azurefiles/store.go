// Package azurefiles provides a blob store adapter over the Azure
// Files REST API, authenticated with a share SAS URL. Documents live
// in the share root.
package azurefiles

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second

	apiVersion = "2021-08-06"
)

// Store talks to one Azure file share through its SAS URL.
type Store struct {
	client   *http.Client
	shareURL *url.URL
}

// listResponse is the directory listing XML format. Subdirectories
// appear as separate entries and are ignored.
type listResponse struct {
	Entries struct {
		Files []struct {
			Name       string `xml:"Name"`
			Properties struct {
				ContentLength int64 `xml:"Content-Length"`
			} `xml:"Properties"`
		} `xml:"File"`
	} `xml:"Entries"`
	NextMarker string `xml:"NextMarker"`
}

// NewStore creates a store from a share SAS URL, e.g.
// https://account.file.core.windows.net/share?sv=...&sig=...
func NewStore(sasURL string, timeout time.Duration) (*Store, error) {
	if sasURL == "" {
		return nil, fmt.Errorf("azurefiles: share SAS URL is required")
	}
	u, err := url.Parse(sasURL)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: parse SAS URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" || u.Path == "" || u.Path == "/" {
		return nil, fmt.Errorf("azurefiles: SAS URL must name a share")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Store{
		client:   &http.Client{Timeout: timeout},
		shareURL: u,
	}, nil
}

// List enumerates the files in the share root, following continuation
// markers until the listing is exhausted.
func (s *Store) List(ctx context.Context) ([]driven.BlobInfo, error) {
	var blobs []driven.BlobInfo
	marker := ""

	for {
		page, err := s.listPage(ctx, marker)
		if err != nil {
			return nil, err
		}
		for _, file := range page.Entries.Files {
			blobs = append(blobs, driven.BlobInfo{
				Name: file.Name,
				Size: file.Properties.ContentLength,
			})
		}
		if page.NextMarker == "" {
			return blobs, nil
		}
		marker = page.NextMarker
	}
}

func (s *Store) listPage(ctx context.Context, marker string) (*listResponse, error) {
	listURL := *s.shareURL
	query := listURL.Query()
	query.Set("restype", "directory")
	query.Set("comp", "list")
	if marker != "" {
		query.Set("marker", marker)
	}
	listURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: create list request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: list files: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: read list response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azurefiles: list returned status %d: %s", resp.StatusCode, string(body))
	}

	var page listResponse
	if err := xml.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("azurefiles: decode list response: %w", err)
	}
	return &page, nil
}

// Fetch downloads one file's bytes.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.fileURL(name, ""), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: create get request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: get %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("azurefiles: %s: %w", name, domain.ErrNotFound)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azurefiles: read %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azurefiles: get %s returned status %d: %s", name, resp.StatusCode, string(body))
	}
	return body, nil
}

// Put uploads a file. Azure Files has no single-shot upload: the file
// is created at its final length first, then the content is written as
// one range.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := s.createFile(ctx, name, int64(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return s.putRange(ctx, name, data)
}

func (s *Store) createFile(ctx context.Context, name string, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.fileURL(name, ""), http.NoBody)
	if err != nil {
		return fmt.Errorf("azurefiles: create file request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)
	req.Header.Set("x-ms-type", "file")
	req.Header.Set("x-ms-content-length", strconv.FormatInt(size, 10))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("azurefiles: create %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("azurefiles: create %s returned status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}

func (s *Store) putRange(ctx context.Context, name string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.fileURL(name, "comp=range"), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("azurefiles: create range request: %w", err)
	}
	req.Header.Set("x-ms-version", apiVersion)
	req.Header.Set("x-ms-write", "update")
	req.Header.Set("x-ms-range", fmt.Sprintf("bytes=0-%d", len(data)-1))
	req.ContentLength = int64(len(data))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("azurefiles: write %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("azurefiles: write %s returned status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}

// fileURL builds the SAS URL of one file in the share root, with an
// optional extra query parameter.
func (s *Store) fileURL(name, extra string) string {
	u := *s.shareURL
	u.Path = path.Join(u.Path, name)
	if extra != "" {
		u.RawQuery = u.RawQuery + "&" + extra
	}
	return u.String()
}

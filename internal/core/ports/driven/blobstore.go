package driven

import "context"

// BlobInfo describes a remote document available for sync.
type BlobInfo struct {
	// Name is the blob or file name within the container/share.
	Name string

	// Size is the content length in bytes, when the listing reports it.
	Size int64
}

// BlobStore is remote document storage that sync operations pull from.
//
// Implementations may include:
//   - Azure Blob containers
//   - Azure file shares
//   - a local directory
type BlobStore interface {
	// List enumerates the documents available in the store.
	List(ctx context.Context) ([]BlobInfo, error)

	// Fetch downloads a document's raw bytes.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Put uploads a document.
	Put(ctx context.Context, name string, data []byte) error
}

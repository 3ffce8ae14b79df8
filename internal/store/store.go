// Package store provides read-only access to the remote WebDAV file store.
//
// The migration pipeline only needs two operations: listing a folder and
// reading a file's full contents. Connection pooling and credentials are
// handled by the underlying [net/http] client.
package store

import "context"

// Entry is one item in a remote folder listing.
type Entry struct {
	Name string // entry name within the folder
	Dir  bool   // true for collections
	Size int64  // size in bytes, 0 for collections
}

// Client is the narrow interface the pipeline uses against the file store.
type Client interface {
	// List returns the entries directly inside the given folder.
	List(ctx context.Context, folder string) ([]Entry, error)

	// Read fetches the full contents of the file at the given path.
	Read(ctx context.Context, path string) ([]byte, error)
}

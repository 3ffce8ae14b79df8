// Package platform implements the media platform API client.
//
// The pipeline needs two operations: uploading a media file (with its
// content hash, media type, and optional tags/cover) and attaching an
// existing media record to a playlist. Attaching is idempotent: the
// platform answers 409 when the media is already a member, and this client
// treats that as success.
package platform

import "context"

// Media is a created media record on the platform.
type Media struct {
	ID string `json:"id"`
}

// UploadRequest carries everything needed to create a media record.
type UploadRequest struct {
	Name        string // original file name
	Data        []byte // full file contents
	MediaTypeID string // platform media type
	Hash        string // hex content digest
	Artist      string
	Title       string
	Cover       []byte // optional embedded cover image
	CoverFormat string // cover format label, e.g. "jpeg"

	// Progress, when non-nil, is invoked with the cumulative number of
	// content bytes sent so far as the upload streams out.
	Progress func(sent int64)
}

// API is the narrow interface the pipeline uses against the platform.
type API interface {
	// CreateMedia uploads the file and returns the created media record.
	CreateMedia(ctx context.Context, req UploadRequest) (*Media, error)

	// AttachToPlaylist adds the media to the playlist. An "already a
	// member" response is not an error.
	AttachToPlaylist(ctx context.Context, mediaID, playlistID string) error
}

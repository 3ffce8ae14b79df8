// Package tags extracts artist/title metadata and embedded cover art from
// audio file contents.
//
// Parsing is delegated to [github.com/dhowden/tag], which handles ID3v1/v2,
// MP4, FLAC and OGG containers from an [io.ReadSeeker]. Files without any
// tag block fall back to a title derived from the file name; only a
// structurally unreadable buffer is an error.
package tags

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dhowden/tag"

	"github.com/soundlift/soundlift/internal/shared"
)

// Cover is an embedded cover image with its format label (e.g. "jpeg").
type Cover struct {
	Data   []byte
	Format string
}

// Tags is the structured record returned by extraction.
type Tags struct {
	Artist string
	Title  string
	Cover  *Cover
}

// Extractor is the narrow interface the pipeline uses for metadata.
type Extractor interface {
	Extract(data []byte, size int64, name string) (*Tags, error)
}

// Reader implements [Extractor] using dhowden/tag.
type Reader struct{}

// NewReader creates a tag-based metadata extractor.
func NewReader() *Reader {
	return &Reader{}
}

// Extract parses the buffer and returns its tag record. The name hint is
// used as the title when the file carries no usable tags.
func (r *Reader) Extract(data []byte, size int64, name string) (*Tags, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", shared.ErrParse, name)
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return &Tags{Title: titleFromName(name)}, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrParse, name, err)
	}

	t := &Tags{
		Artist: m.Artist(),
		Title:  m.Title(),
	}
	if t.Title == "" {
		t.Title = titleFromName(name)
	}
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		format := pic.Ext
		if format == "" {
			format = strings.TrimPrefix(pic.MIMEType, "image/")
		}
		t.Cover = &Cover{Data: pic.Data, Format: format}
	}
	return t, nil
}

// titleFromName strips the extension from a file name.
func titleFromName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

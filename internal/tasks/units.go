package tasks

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/store"
)

// FileUnit is one remote file selected for migration. Immutable once
// enumerated; consumed by exactly one worker.
type FileUnit struct {
	Folder      string // remote folder path
	Name        string // entry name within the folder
	Size        int64
	MediaTypeID string
	PlaylistID  string // empty when the folder has no playlist
}

// Path returns the full remote path of the unit.
func (u FileUnit) Path() string {
	return strings.TrimRight(u.Folder, "/") + "/" + u.Name
}

// Key returns the registry key for the unit, unique per enumerated file.
func (u FileUnit) Key() string {
	return u.Path()
}

// enumerate lists all configured folders concurrently and returns the
// eligible units in folder order, then listing order within each folder.
// Any listing failure is fatal to the whole run.
func enumerate(ctx context.Context, client store.Client, folders []shared.FolderConfig, extensions map[string]struct{}) ([]FileUnit, error) {
	perFolder := make([][]FileUnit, len(folders))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, folder := range folders {
		eg.Go(func() error {
			entries, err := client.List(egCtx, folder.Path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", shared.ErrStoreUnavailable, folder.Path, err)
			}

			var units []FileUnit
			for _, entry := range entries {
				if entry.Dir || !eligible(entry.Name, extensions) {
					continue
				}
				units = append(units, FileUnit{
					Folder:      folder.Path,
					Name:        entry.Name,
					Size:        entry.Size,
					MediaTypeID: folder.MediaTypeID,
					PlaylistID:  folder.PlaylistID,
				})
			}
			perFolder[i] = units
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []FileUnit
	for _, units := range perFolder {
		all = append(all, units...)
	}
	return all, nil
}

// eligible reports whether the name carries one of the accepted extensions,
// compared case-insensitively.
func eligible(name string, extensions map[string]struct{}) bool {
	if len(extensions) == 0 {
		return true
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := extensions[strings.ToLower(name[idx:])]
	return ok
}

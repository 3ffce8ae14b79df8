package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/store"
)

func TestEligible(t *testing.T) {
	extensions := map[string]struct{}{".mp3": {}, ".flac": {}}

	cases := []struct {
		name string
		want bool
	}{
		{"track.mp3", true},
		{"track.MP3", true},
		{"track.FlAc", true},
		{"track.ogg", false},
		{"track", false},
		{"archive.mp3.zip", false},
	}
	for _, tc := range cases {
		if got := eligible(tc.name, extensions); got != tc.want {
			t.Errorf("eligible(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	t.Run("empty extension set accepts everything", func(t *testing.T) {
		if !eligible("anything.xyz", nil) {
			t.Error("expected acceptance with no configured extensions")
		}
	})
}

func TestEnumerate(t *testing.T) {
	ctx := context.Background()
	extensions := map[string]struct{}{".mp3": {}}

	t.Run("preserves folder order and folder settings", func(t *testing.T) {
		st := &mockStore{
			listings: map[string][]store.Entry{
				"/b": {entry("b1.mp3", 1), entry("b2.mp3", 2)},
				"/a": {entry("a1.mp3", 3), {Name: "nested", Dir: true}, entry("skip.txt", 4)},
			},
		}
		folders := []shared.FolderConfig{
			{Path: "/a", MediaTypeID: "audio", PlaylistID: "pl-a"},
			{Path: "/b", MediaTypeID: "audio"},
		}

		units, err := enumerate(ctx, st, folders, extensions)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(units) != 3 {
			t.Fatalf("expected 3 units, got %d", len(units))
		}
		if units[0].Name != "a1.mp3" || units[1].Name != "b1.mp3" || units[2].Name != "b2.mp3" {
			t.Errorf("unexpected order: %v", units)
		}
		if units[0].PlaylistID != "pl-a" {
			t.Errorf("expected folder playlist carried onto unit, got %q", units[0].PlaylistID)
		}
		if units[1].PlaylistID != "" {
			t.Errorf("expected empty playlist for /b, got %q", units[1].PlaylistID)
		}
		if units[0].Path() != "/a/a1.mp3" {
			t.Errorf("unexpected unit path %q", units[0].Path())
		}
	})

	t.Run("any listing failure is fatal", func(t *testing.T) {
		st := &mockStore{
			listings: map[string][]store.Entry{"/a": {entry("a1.mp3", 1)}},
			listErr:  fmt.Errorf("unreachable"),
		}
		folders := []shared.FolderConfig{{Path: "/a", MediaTypeID: "audio"}}

		if _, err := enumerate(ctx, st, folders, extensions); err == nil {
			t.Fatal("expected error")
		}
	})
}

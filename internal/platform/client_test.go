package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundlift/soundlift/internal/shared"
)

func testClient(baseURL string) *Client {
	return NewClient(context.Background(), shared.PlatformConfig{
		BaseURL:   baseURL,
		RateLimit: 1000,
	})
}

func TestCreateMedia(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads multipart fields and file", func(t *testing.T) {
		var gotHash, gotType, gotArtist, gotTitle string
		var gotFile []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			gotHash = r.FormValue("hash")
			gotType = r.FormValue("media_type")
			gotArtist = r.FormValue("artist")
			gotTitle = r.FormValue("title")
			if f, _, err := r.FormFile("file"); err == nil {
				gotFile, _ = io.ReadAll(f)
				f.Close()
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "media-42"})
		}))
		defer server.Close()

		var observed []int64
		media, err := testClient(server.URL).CreateMedia(ctx, UploadRequest{
			Name:        "one.mp3",
			Data:        []byte("audio-bytes"),
			MediaTypeID: "audio",
			Hash:        "deadbeef",
			Artist:      "Artist",
			Title:       "Title",
			Progress:    func(sent int64) { observed = append(observed, sent) },
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if media.ID != "media-42" {
			t.Errorf("expected media-42, got %s", media.ID)
		}
		if gotHash != "deadbeef" || gotType != "audio" {
			t.Errorf("unexpected fields: hash=%q type=%q", gotHash, gotType)
		}
		if gotArtist != "Artist" || gotTitle != "Title" {
			t.Errorf("unexpected tags: artist=%q title=%q", gotArtist, gotTitle)
		}
		if string(gotFile) != "audio-bytes" {
			t.Errorf("unexpected file contents %q", gotFile)
		}
		if len(observed) == 0 {
			t.Fatal("expected progress observations")
		}
		for i := 1; i < len(observed); i++ {
			if observed[i] < observed[i-1] {
				t.Errorf("progress regressed: %v", observed)
			}
		}
		if final := observed[len(observed)-1]; final != int64(len("audio-bytes")) {
			t.Errorf("expected final cumulative %d, got %d", len("audio-bytes"), final)
		}
	})

	t.Run("includes cover when present", func(t *testing.T) {
		var gotCover []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseMultipartForm(1 << 20)
			if f, header, err := r.FormFile("cover"); err == nil {
				gotCover, _ = io.ReadAll(f)
				f.Close()
				if header.Filename != "cover.jpeg" {
					t.Errorf("unexpected cover filename %q", header.Filename)
				}
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "media-1"})
		}))
		defer server.Close()

		_, err := testClient(server.URL).CreateMedia(ctx, UploadRequest{
			Name:        "one.mp3",
			Data:        []byte("x"),
			Cover:       []byte("jpeg-bytes"),
			CoverFormat: "jpeg",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(gotCover) != "jpeg-bytes" {
			t.Errorf("unexpected cover %q", gotCover)
		}
	})

	t.Run("non-success status is a transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := testClient(server.URL).CreateMedia(ctx, UploadRequest{Name: "x", Data: []byte("x")})
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("response without id is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		_, err := testClient(server.URL).CreateMedia(ctx, UploadRequest{Name: "x", Data: []byte("x")})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestAttachToPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("posts media id to playlist items", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		if err := testClient(server.URL).AttachToPlaylist(ctx, "media-1", "pl-9"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotPath != "/api/playlists/pl-9/items" {
			t.Errorf("unexpected path %q", gotPath)
		}
		if gotBody["media_id"] != "media-1" {
			t.Errorf("unexpected body %v", gotBody)
		}
	})

	t.Run("conflict is success", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls > 1 {
				w.WriteHeader(http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := testClient(server.URL)
		if err := client.AttachToPlaylist(ctx, "media-1", "pl-9"); err != nil {
			t.Fatalf("first attach: expected no error, got %v", err)
		}
		if err := client.AttachToPlaylist(ctx, "media-1", "pl-9"); err != nil {
			t.Fatalf("second attach: conflict must be success, got %v", err)
		}
	})

	t.Run("other failures propagate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		err := testClient(server.URL).AttachToPlaylist(ctx, "media-1", "pl-9")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

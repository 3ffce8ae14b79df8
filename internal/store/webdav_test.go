package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundlift/soundlift/internal/shared"
)

const listingBody = `<?xml version="1.0"?>
<d:multistatus xmlns:d="DAV:">
  <d:response>
    <d:href>/dav/Albums/</d:href>
    <d:propstat>
      <d:prop><d:resourcetype><d:collection/></d:resourcetype></d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/dav/Albums/one.mp3</d:href>
    <d:propstat>
      <d:prop>
        <d:resourcetype/>
        <d:getcontentlength>4096</d:getcontentlength>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
  <d:response>
    <d:href>/dav/Albums/Covers/</d:href>
    <d:propstat>
      <d:prop><d:resourcetype><d:collection/></d:resourcetype></d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

func TestDAVClientList(t *testing.T) {
	ctx := context.Background()

	t.Run("parses multistatus listings", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "PROPFIND" {
				t.Errorf("expected PROPFIND, got %s", r.Method)
			}
			if r.Header.Get("Depth") != "1" {
				t.Errorf("expected Depth 1, got %q", r.Header.Get("Depth"))
			}
			w.WriteHeader(http.StatusMultiStatus)
			w.Write([]byte(listingBody))
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{BaseURL: server.URL + "/dav"}, nil)
		entries, err := client.List(ctx, "/Albums")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries (self excluded), got %d: %+v", len(entries), entries)
		}
		if entries[0].Name != "one.mp3" || entries[0].Dir || entries[0].Size != 4096 {
			t.Errorf("unexpected file entry %+v", entries[0])
		}
		if entries[1].Name != "Covers" || !entries[1].Dir {
			t.Errorf("unexpected collection entry %+v", entries[1])
		}
	})

	t.Run("sends basic auth when configured", func(t *testing.T) {
		var gotUser, gotPass string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotPass, _ = r.BasicAuth()
			w.WriteHeader(http.StatusMultiStatus)
			w.Write([]byte(listingBody))
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{
			BaseURL:  server.URL + "/dav",
			Username: "alice",
			Password: "secret",
		}, nil)
		if _, err := client.List(ctx, "/Albums"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotUser != "alice" || gotPass != "secret" {
			t.Errorf("expected basic auth, got %q/%q", gotUser, gotPass)
		}
	})

	t.Run("non-success status is a transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{BaseURL: server.URL}, nil)
		if _, err := client.List(ctx, "/Albums"); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("malformed body is a transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMultiStatus)
			w.Write([]byte("not xml"))
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{BaseURL: server.URL}, nil)
		if _, err := client.List(ctx, "/Albums"); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

func TestDAVClientRead(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches full contents", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/dav/Albums/one.mp3" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Write([]byte("audio-bytes"))
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{BaseURL: server.URL + "/dav"}, nil)
		data, err := client.Read(ctx, "/Albums/one.mp3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "audio-bytes" {
			t.Errorf("unexpected contents %q", data)
		}
	})

	t.Run("missing file is a transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewDAVClient(shared.StoreConfig{BaseURL: server.URL}, nil)
		if _, err := client.Read(ctx, "/gone.mp3"); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

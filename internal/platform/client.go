package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/soundlift/soundlift/internal/shared"
)

const defaultRateLimit = 5.0

// Client implements [API] over HTTP.
//
// Authentication uses OAuth2 client credentials when configured, a static
// bearer token otherwise. All calls go through a shared rate limiter so
// concurrent pipeline workers cannot exceed the platform's request budget.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a platform API client from the given settings.
func NewClient(ctx context.Context, cfg shared.PlatformConfig) *Client {
	httpClient := http.DefaultClient
	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TokenURL != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(ctx)
	case cfg.Token != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, src)
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
	}
}

// progressReader reports cumulative bytes read to a sink as the request
// body streams out through the transport.
type progressReader struct {
	r    io.Reader
	sent int64
	sink func(sent int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.sink != nil {
			p.sink(p.sent)
		}
	}
	return n, err
}

// CreateMedia uploads the file as a multipart request and returns the
// created media record.
func (c *Client) CreateMedia(ctx context.Context, req UploadRequest) (*Media, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// The multipart body is streamed through a pipe so the progress sink
	// observes bytes as the transport sends them, not at body-build time.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadBody(mw, req)
		mw.Close()
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/media", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: create media: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: create media: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: create media: status %d: %s", shared.ErrTransport, resp.StatusCode, truncate(body))
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, fmt.Errorf("%w: create media: malformed response: %v", shared.ErrTransport, err)
	}
	if media.ID == "" {
		return nil, fmt.Errorf("%w: create media: response missing id", shared.ErrTransport)
	}
	return &media, nil
}

// writeUploadBody writes all multipart fields, wrapping the file content in
// a progress-reporting reader.
func writeUploadBody(mw *multipart.Writer, req UploadRequest) error {
	fields := map[string]string{
		"media_type": req.MediaTypeID,
		"hash":       req.Hash,
	}
	if req.Artist != "" {
		fields["artist"] = req.Artist
	}
	if req.Title != "" {
		fields["title"] = req.Title
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	if len(req.Cover) > 0 {
		part, err := mw.CreateFormFile("cover", "cover."+req.CoverFormat)
		if err != nil {
			return fmt.Errorf("failed to create cover part: %w", err)
		}
		if _, err := part.Write(req.Cover); err != nil {
			return fmt.Errorf("failed to write cover: %w", err)
		}
	}

	part, err := mw.CreateFormFile("file", req.Name)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	src := &progressReader{r: bytes.NewReader(req.Data), sink: req.Progress}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// AttachToPlaylist adds the media to the playlist. HTTP 409 means the media
// is already a member and is treated as success.
func (c *Client) AttachToPlaylist(ctx context.Context, mediaID, playlistID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"media_id": mediaID})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/playlists/%s/items", c.baseURL, playlistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: attach to playlist: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("%w: attach to playlist: status %d", shared.ErrTransport, resp.StatusCode)
	}
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

package store

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/soundlift/soundlift/internal/shared"
)

const propfindBody = `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:">
  <d:prop>
    <d:resourcetype/>
    <d:getcontentlength/>
  </d:prop>
</d:propfind>`

// DAVClient implements [Client] over WebDAV. Listings use PROPFIND with
// Depth: 1 and parse the RFC 4918 multistatus body; reads are plain GETs.
type DAVClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewDAVClient creates a WebDAV store client from the given settings.
func NewDAVClient(cfg shared.StoreConfig, client *http.Client) *DAVClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &DAVClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: client,
	}
}

// multistatus mirrors the subset of the RFC 4918 response body we consume.
type multistatus struct {
	XMLName   xml.Name      `xml:"multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href     string        `xml:"href"`
	Propstat []davPropstat `xml:"propstat"`
}

type davPropstat struct {
	Prop   davProp `xml:"prop"`
	Status string  `xml:"status"`
}

type davProp struct {
	ContentLength int64           `xml:"getcontentlength"`
	ResourceType  davResourceType `xml:"resourcetype"`
}

type davResourceType struct {
	Collection *struct{} `xml:"collection"`
}

// List returns the entries directly inside folder, excluding the folder itself.
func (c *DAVClient) List(ctx context.Context, folder string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", c.fullURL(folder), strings.NewReader(propfindBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Depth", "1")
	req.Header.Set("Content-Type", "application/xml")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", shared.ErrTransport, folder, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMultiStatus && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list %s: status %d", shared.ErrTransport, folder, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", shared.ErrTransport, folder, err)
	}

	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("%w: list %s: malformed multistatus: %v", shared.ErrTransport, folder, err)
	}

	selfPath := strings.TrimRight(mustPath(c.fullURL(folder)), "/")
	var entries []Entry
	for _, r := range ms.Responses {
		href, err := url.PathUnescape(r.Href)
		if err != nil {
			href = r.Href
		}
		trimmed := strings.TrimRight(href, "/")
		if trimmed == selfPath || trimmed == strings.TrimRight(folder, "/") {
			continue
		}

		prop := okProp(r.Propstat)
		entries = append(entries, Entry{
			Name: path.Base(trimmed),
			Dir:  prop.ResourceType.Collection != nil,
			Size: prop.ContentLength,
		})
	}
	return entries, nil
}

// Read fetches the full contents of the file at path.
func (c *DAVClient) Read(ctx context.Context, filePath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fullURL(filePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrTransport, filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: read %s: status %d", shared.ErrTransport, filePath, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", shared.ErrTransport, filePath, err)
	}
	return data, nil
}

func (c *DAVClient) authorize(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

func (c *DAVClient) fullURL(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.baseURL + p
}

// okProp returns the prop from the 200 propstat, falling back to the first.
func okProp(propstats []davPropstat) davProp {
	for _, ps := range propstats {
		if strings.Contains(ps.Status, "200") {
			return ps.Prop
		}
	}
	if len(propstats) > 0 {
		return propstats[0].Prop
	}
	return davProp{}
}

func mustPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

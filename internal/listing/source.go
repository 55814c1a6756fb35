package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Source provides the raw listing CSV.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource reads the listing export from local disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open listing file: %w", err)
	}
	return f, nil
}

// HTTPSource downloads the listing export, with optional proxy support.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates a source that GETs the CSV from rawURL.
func NewHTTPSource(rawURL, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}

func (s *HTTPSource) Name() string { return "http:" + s.URL }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch listings: status %d, body: %s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
func NewSource(location, proxyURL string) Source {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewHTTPSource(location, proxyURL)
	}
	return NewFileSource(location)
}

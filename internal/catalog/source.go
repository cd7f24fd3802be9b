package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vytor/phrasecards/internal/logger"
)

// Source provides the raw card table.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	String() string
}

// NewSource picks an HTTP source for http(s) URLs and a file source otherwise.
func NewSource(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return FileSource{Path: location}
}

type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", s.Path)
	}
	return string(b), nil
}

func (s FileSource) String() string { return s.Path }

// StaticSource serves a fixed table. Handy for embedding and tests.
type StaticSource string

func (s StaticSource) Fetch(context.Context) (string, error) { return string(s), nil }

func (s StaticSource) String() string { return "static" }

type HTTPSource struct {
	URL        string
	httpClient *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		URL:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog").WithField("url", s.URL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch catalog: %v", err)
		return "", errors.Wrapf(err, "fetch %s", s.URL)
	}
	defer resp.Body.Close()

	log.Debug("catalog response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("catalog status %d: %s", resp.StatusCode, string(body))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read catalog body")
	}
	return string(b), nil
}

func (s *HTTPSource) String() string { return s.URL }

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	serperURL     = "https://google.serper.dev/search"
	maxPageBytes  = 1 << 20
	clientTimeout = 20 * time.Second
)

// Result is a single organic search hit.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// Service queries the Serper search API and fetches web pages.
type Service struct {
	apiKey     string
	searchURL  string
	httpClient *http.Client
}

func NewService(apiKey string) *Service {
	return &Service{
		apiKey:     apiKey,
		searchURL:  serperURL,
		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

// NewServiceWithURL builds a Service against a custom search endpoint.
func NewServiceWithURL(apiKey, searchURL string) *Service {
	s := NewService(apiKey)
	s.searchURL = searchURL
	return s
}

// Search runs a web search and returns up to num organic results.
func (s *Service) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("search API key is not configured")
	}
	if num <= 0 {
		num = 5
	}

	payload, err := json.Marshal(map[string]any{
		"q":   query,
		"num": num,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.searchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("unable to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Organic []Result `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("unable to decode search response: %w", err)
	}

	return parsed.Organic, nil
}

// FetchPage downloads a web page and returns its raw content, capped at
// one megabyte.
func (s *Service) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("unable to create page request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; assistant-backend/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to fetch page %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("unable to read page %s: %w", url, err)
	}

	return string(body), nil
}

// Package giphy is a client for the Giphy GIF search API.
package giphy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key is present.
var ErrNotConfigured = errors.New("giphy: api key not configured")

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.giphy.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// GIF is one search result.
type GIF struct {
	Images struct {
		Original struct {
			URL string `json:"url"`
		} `json:"original"`
	} `json:"images"`
}

// SearchGIFs returns GIFs for the query, PG-13 rated, best match first.
func (c *Client) SearchGIFs(ctx context.Context, query string) ([]GIF, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{
		"api_key": {c.cfg.APIKey},
		"q":       {query},
		"limit":   {"1"},
		"rating":  {"pg-13"},
		"lang":    {"en"},
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/gifs/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("giphy: search: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("giphy: search http %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Data []GIF `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("giphy: search decode: %w", err)
	}
	return out.Data, nil
}

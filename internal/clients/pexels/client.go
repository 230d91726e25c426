// Package pexels is a client for the Pexels stock photo and video APIs.
package pexels

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
var ErrNotConfigured = errors.New("pexels: api key not configured")

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
		cfg.BaseURL = "https://api.pexels.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Photo is one photo search result.
type Photo struct {
	Photographer string `json:"photographer"`
	Src          struct {
		Large string `json:"large"`
	} `json:"src"`
}

// VideoFile is one rendition of a stock video.
type VideoFile struct {
	Link     string `json:"link"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
}

// StockVideo is one video search result.
type StockVideo struct {
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	VideoFiles []VideoFile `json:"video_files"`
}

// SearchPhotos returns stock photos for the query.
func (c *Client) SearchPhotos(ctx context.Context, query string) ([]Photo, error) {
	var out struct {
		Photos []Photo `json:"photos"`
	}
	if err := c.get(ctx, "/v1/search", query, &out); err != nil {
		return nil, err
	}
	return out.Photos, nil
}

// SearchVideos returns stock videos for the query.
func (c *Client) SearchVideos(ctx context.Context, query string) ([]StockVideo, error) {
	var out struct {
		Videos []StockVideo `json:"videos"`
	}
	if err := c.get(ctx, "/v1/videos/search", query, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

func (c *Client) get(ctx context.Context, path, query string, out any) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return ErrNotConfigured
	}

	params := url.Values{
		"query":    {query},
		"per_page": {"1"},
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pexels: %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pexels: %s http %d: %s", path, resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("pexels: %s decode: %w", path, err)
	}
	return nil
}

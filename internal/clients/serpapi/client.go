// Package serpapi is a client for the SerpApi Google image, video, and web
// search engines.
package serpapi

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
var ErrNotConfigured = errors.New("serpapi: api key not configured")

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
		cfg.BaseURL = "https://serpapi.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Image is one google_images result.
type Image struct {
	Original string `json:"original"`
}

// Video is one google_videos result.
type Video struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Channel string `json:"channel"`
	Length  string `json:"length"`
}

// WebResult carries the answer-bearing fields of a plain google search.
type WebResult struct {
	AnswerBox      AnswerBox       `json:"answer_box"`
	KnowledgeGraph KnowledgeGraph  `json:"knowledge_graph"`
	OrganicResults []OrganicResult `json:"organic_results"`
}

type AnswerBox struct {
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

type KnowledgeGraph struct {
	Description string `json:"description"`
}

type OrganicResult struct {
	Snippet string `json:"snippet"`
}

// SearchImages returns google_images results for the query.
func (c *Client) SearchImages(ctx context.Context, query string) ([]Image, error) {
	var out struct {
		ImagesResults []Image `json:"images_results"`
	}
	params := url.Values{
		"engine": {"google_images"},
		"q":      {query},
		"ijn":    {"0"},
	}
	if err := c.search(ctx, params, &out); err != nil {
		return nil, err
	}
	return out.ImagesResults, nil
}

// SearchVideos returns google_videos results for the query, in rank order.
func (c *Client) SearchVideos(ctx context.Context, query string) ([]Video, error) {
	var out struct {
		VideoResults []Video `json:"video_results"`
	}
	params := url.Values{
		"engine": {"google_videos"},
		"q":      {query},
	}
	if err := c.search(ctx, params, &out); err != nil {
		return nil, err
	}
	return out.VideoResults, nil
}

// SearchWeb runs a plain google search and returns answer box, knowledge
// graph, and organic results.
func (c *Client) SearchWeb(ctx context.Context, query string) (*WebResult, error) {
	var out WebResult
	params := url.Values{
		"engine": {"google"},
		"q":      {query},
	}
	if err := c.search(ctx, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) search(ctx context.Context, params url.Values, out any) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return ErrNotConfigured
	}
	params.Set("api_key", c.cfg.APIKey)

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi: %s search: %w", params.Get("engine"), err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("serpapi: %s search http %d: %s", params.Get("engine"), resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("serpapi: %s search decode: %w", params.Get("engine"), err)
	}
	return nil
}

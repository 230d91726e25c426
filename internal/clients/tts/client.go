// Package tts synthesizes speech through the Google Translate TTS endpoint.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxUtterance is the endpoint's effective query limit; longer summaries are
// truncated rather than chunked since the spoken text is a single sentence.
const maxUtterance = 200

type Config struct {
	BaseURL string
	Lang    string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://translate.google.com"
	}
	if strings.TrimSpace(cfg.Lang) == "" {
		cfg.Lang = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Synthesize converts text to MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("tts: empty text")
	}
	if runes := []rune(text); len(runes) > maxUtterance {
		text = string(runes[:maxUtterance])
	}

	params := url.Values{
		"ie":     {"UTF-8"},
		"q":      {text},
		"tl":     {c.cfg.Lang},
		"client": {"tw-ob"},
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/translate_tts?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tts: synthesize http %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: reading audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts: empty audio response")
	}
	return audio, nil
}

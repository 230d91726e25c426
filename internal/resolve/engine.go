package resolve

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aura-ai/aura/internal/clients/gemini"
	"github.com/aura-ai/aura/internal/clients/giphy"
	"github.com/aura-ai/aura/internal/clients/pexels"
	"github.com/aura-ai/aura/internal/clients/serpapi"
	"github.com/aura-ai/aura/internal/intent"
	"github.com/aura-ai/aura/internal/metrics"
)

// providerTimeout bounds every single provider and model call so a stalled
// upstream cannot hold a request open indefinitely.
const providerTimeout = 15 * time.Second

// unknownAnswer is the fixed reply for utterances the classifier could not
// place in the taxonomy.
const unknownAnswer = "I'm sorry, I couldn't understand that. Could you rephrase?"

// GoogleSearcher is the SerpApi surface the engine uses.
type GoogleSearcher interface {
	SearchImages(ctx context.Context, query string) ([]serpapi.Image, error)
	SearchVideos(ctx context.Context, query string) ([]serpapi.Video, error)
	SearchWeb(ctx context.Context, query string) (*serpapi.WebResult, error)
}

// PexelsSearcher is the stock photo/video surface the engine uses.
type PexelsSearcher interface {
	SearchPhotos(ctx context.Context, query string) ([]pexels.Photo, error)
	SearchVideos(ctx context.Context, query string) ([]pexels.StockVideo, error)
}

// GIFSearcher is the GIF provider surface the engine uses.
type GIFSearcher interface {
	SearchGIFs(ctx context.Context, query string) ([]giphy.GIF, error)
}

// Conversationalist answers free-form questions with conversation history.
type Conversationalist interface {
	Chat(ctx context.Context, history []gemini.Message, message string) (string, error)
}

// Engine resolves a classified intent into displayable content through
// per-intent provider chains. Resolve always returns a value: missing
// credentials, transport failures, and empty result sets all fold into a
// user-facing text answer.
type Engine struct {
	google GoogleSearcher
	pexels PexelsSearcher
	giphy  GIFSearcher
	chat   Conversationalist
}

func NewEngine(google GoogleSearcher, px PexelsSearcher, gp GIFSearcher, chat Conversationalist) *Engine {
	return &Engine{google: google, pexels: px, giphy: gp, chat: chat}
}

// Resolve dispatches to the provider chain for the classified intent.
func (e *Engine) Resolve(ctx context.Context, cls intent.Classification, history []gemini.Message) Content {
	switch cls.Intent {
	case intent.FindImage:
		return e.resolveImage(ctx, cls)
	case intent.FindGIF:
		return e.resolveGIF(ctx, cls.Content)
	case intent.FindPexelsVideo:
		return e.resolveStockVideo(ctx, cls.Content)
	case intent.FindYouTubeVideo:
		return e.resolveYouTube(ctx, cls.Content)
	case intent.FactCheck:
		return e.resolveFactCheck(ctx, cls.Content, history)
	case intent.AnswerText:
		// A degraded classification already carries the final answer text.
		if cls.Content == intent.Apology {
			return textContent(cls.Content)
		}
		return textContent(e.converse(ctx, cls.Content, history))
	default:
		return textContent(unknownAnswer)
	}
}

func (e *Engine) resolveImage(ctx context.Context, cls intent.Classification) Content {
	query := cls.Content
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	// Content-type heuristic picks exactly one provider; there is no
	// cross-provider retry.
	if cls.ImageType == intent.ImageTypeSpecificEntity {
		images, err := e.google.SearchImages(ctx, query)
		if err != nil {
			return providerFailure("google_images", err,
				"Specific image search is not configured.",
				"Error connecting to specific image search.")
		}
		if len(images) == 0 || images[0].Original == "" {
			metrics.ProviderRequestsTotal.WithLabelValues("google_images", "miss").Inc()
			return textContent(fmt.Sprintf("I couldn't find a Google Image for '%s'.", query))
		}
		metrics.ProviderRequestsTotal.WithLabelValues("google_images", "hit").Inc()
		return Content{
			Kind:        KindImage,
			Locator:     images[0].Original,
			Attribution: fmt.Sprintf("Image of '%s' from Google.", query),
		}
	}

	photos, err := e.pexels.SearchPhotos(ctx, query)
	if err != nil {
		return providerFailure("pexels_photos", err,
			"Generic image search is not configured.",
			"Error connecting to the photo service.")
	}
	if len(photos) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("pexels_photos", "miss").Inc()
		return textContent(fmt.Sprintf("I couldn't find a stock photo for '%s'.", query))
	}
	metrics.ProviderRequestsTotal.WithLabelValues("pexels_photos", "hit").Inc()
	return Content{
		Kind:        KindImage,
		Locator:     photos[0].Src.Large,
		Attribution: fmt.Sprintf("Photo by %s on Pexels.", photos[0].Photographer),
	}
}

func (e *Engine) resolveGIF(ctx context.Context, query string) Content {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	gifs, err := e.giphy.SearchGIFs(ctx, query)
	if err != nil {
		return providerFailure("giphy", err,
			"GIF search is not configured.",
			"Sorry, I couldn't connect to the GIF service.")
	}
	if len(gifs) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("giphy", "miss").Inc()
		return textContent(fmt.Sprintf("I couldn't find a Giphy GIF for '%s'.", query))
	}
	metrics.ProviderRequestsTotal.WithLabelValues("giphy", "hit").Inc()
	return Content{
		Kind:        KindGIF,
		Locator:     gifs[0].Images.Original.URL,
		Attribution: fmt.Sprintf("GIF result for '%s' from Giphy.", query),
	}
}

func (e *Engine) resolveStockVideo(ctx context.Context, query string) Content {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	videos, err := e.pexels.SearchVideos(ctx, query)
	if err != nil {
		return providerFailure("pexels_videos", err,
			"Generic video search is not configured.",
			"Error connecting to the video service.")
	}

	notFound := textContent(fmt.Sprintf("I couldn't find a stock video for '%s'.", query))
	if len(videos) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("pexels_videos", "miss").Inc()
		return notFound
	}

	// Widest MP4 rendition wins.
	var mp4s []pexels.VideoFile
	for _, f := range videos[0].VideoFiles {
		if f.FileType == "video/mp4" {
			mp4s = append(mp4s, f)
		}
	}
	if len(mp4s) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("pexels_videos", "miss").Inc()
		return notFound
	}
	sort.Slice(mp4s, func(i, j int) bool { return mp4s[i].Width > mp4s[j].Width })

	metrics.ProviderRequestsTotal.WithLabelValues("pexels_videos", "hit").Inc()
	return Content{
		Kind:        KindVideoStream,
		Locator:     EncodeStreamToken(mp4s[0].Link),
		Attribution: fmt.Sprintf("Video by %s on Pexels.", videos[0].User.Name),
	}
}

func (e *Engine) resolveYouTube(ctx context.Context, query string) Content {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	videos, err := e.google.SearchVideos(ctx, query)
	if err != nil {
		return providerFailure("google_videos", err,
			"YouTube search is not configured.",
			"Error connecting to YouTube search.")
	}

	notFound := textContent(fmt.Sprintf("I couldn't find any YouTube video for '%s'.", query))
	winner, ok := rankVideos(videos)
	if !ok {
		metrics.ProviderRequestsTotal.WithLabelValues("google_videos", "miss").Inc()
		return notFound
	}

	embed := embedURL(winner.Link)
	if embed == "" {
		metrics.ProviderRequestsTotal.WithLabelValues("google_videos", "miss").Inc()
		return notFound
	}

	metrics.ProviderRequestsTotal.WithLabelValues("google_videos", "hit").Inc()
	return Content{
		Kind:        KindVideoEmbed,
		Locator:     embed,
		Attribution: fmt.Sprintf("Video: '%s' on YouTube.", winner.Title),
	}
}

func (e *Engine) resolveFactCheck(ctx context.Context, query string, history []gemini.Message) Content {
	sctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	res, err := e.google.SearchWeb(sctx, query)
	if err != nil {
		// Chain continues into the conversational fallback rather than
		// surfacing a search failure.
		logProviderError("google", err)
		return textContent(e.converse(ctx, query, history))
	}

	answer := ""
	switch {
	case res.AnswerBox.Answer != "":
		answer = res.AnswerBox.Answer
	case res.AnswerBox.Snippet != "":
		answer = res.AnswerBox.Snippet
	case res.KnowledgeGraph.Description != "":
		answer = res.KnowledgeGraph.Description
	case len(res.OrganicResults) > 0 && res.OrganicResults[0].Snippet != "":
		answer = res.OrganicResults[0].Snippet
	}

	if answer == "" {
		metrics.ProviderRequestsTotal.WithLabelValues("google", "miss").Inc()
		return textContent(e.converse(ctx, query, history))
	}
	metrics.ProviderRequestsTotal.WithLabelValues("google", "hit").Inc()
	return textContent(answer)
}

// converse sends the full prior exchange plus the new query to the chat
// model. Any failure yields the fixed apology; there is no retry.
func (e *Engine) converse(ctx context.Context, query string, history []gemini.Message) string {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	reply, err := e.chat.Chat(ctx, history, query)
	if err != nil {
		logProviderError("gemini_chat", err)
		metrics.ProviderRequestsTotal.WithLabelValues("gemini_chat", "error").Inc()
		return intent.Apology
	}
	metrics.ProviderRequestsTotal.WithLabelValues("gemini_chat", "hit").Inc()
	return reply
}

// EncodeStreamToken wraps an upstream MP4 URL into an opaque stream token.
func EncodeStreamToken(mp4URL string) string {
	return base64.URLEncoding.EncodeToString([]byte(mp4URL))
}

// DecodeStreamToken recovers the upstream MP4 URL from a stream token.
func DecodeStreamToken(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("decoding stream token: %w", err)
	}
	return string(raw), nil
}

// providerFailure folds a provider error into the matching user-facing text,
// distinguishing a missing credential from a transport failure.
func providerFailure(provider string, err error, notConfiguredMsg, transportMsg string) Content {
	if errors.Is(err, serpapi.ErrNotConfigured) ||
		errors.Is(err, pexels.ErrNotConfigured) ||
		errors.Is(err, giphy.ErrNotConfigured) {
		metrics.ProviderRequestsTotal.WithLabelValues(provider, "not_configured").Inc()
		return textContent(notConfiguredMsg)
	}
	logProviderError(provider, err)
	metrics.ProviderRequestsTotal.WithLabelValues(provider, "error").Inc()
	return textContent(transportMsg)
}

func logProviderError(provider string, err error) {
	slog.Warn("resolve: provider call failed", "provider", provider, "error", err)
}


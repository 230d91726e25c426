package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-ai/aura/internal/clients/gemini"
	"github.com/aura-ai/aura/internal/clients/giphy"
	"github.com/aura-ai/aura/internal/clients/pexels"
	"github.com/aura-ai/aura/internal/clients/serpapi"
	"github.com/aura-ai/aura/internal/intent"
)

type fakeGoogle struct {
	images    []serpapi.Image
	imagesErr error
	videos    []serpapi.Video
	videosErr error
	web       *serpapi.WebResult
	webErr    error
}

func (f *fakeGoogle) SearchImages(context.Context, string) ([]serpapi.Image, error) {
	return f.images, f.imagesErr
}

func (f *fakeGoogle) SearchVideos(context.Context, string) ([]serpapi.Video, error) {
	return f.videos, f.videosErr
}

func (f *fakeGoogle) SearchWeb(context.Context, string) (*serpapi.WebResult, error) {
	return f.web, f.webErr
}

type fakePexels struct {
	photos    []pexels.Photo
	photosErr error
	videos    []pexels.StockVideo
	videosErr error
}

func (f *fakePexels) SearchPhotos(context.Context, string) ([]pexels.Photo, error) {
	return f.photos, f.photosErr
}

func (f *fakePexels) SearchVideos(context.Context, string) ([]pexels.StockVideo, error) {
	return f.videos, f.videosErr
}

type fakeGiphy struct {
	gifs []giphy.GIF
	err  error
}

func (f *fakeGiphy) SearchGIFs(context.Context, string) ([]giphy.GIF, error) {
	return f.gifs, f.err
}

type fakeChat struct {
	reply   string
	err     error
	gotMsg  string
	gotHist []gemini.Message
}

func (f *fakeChat) Chat(_ context.Context, history []gemini.Message, message string) (string, error) {
	f.gotHist = history
	f.gotMsg = message
	return f.reply, f.err
}

func newTestEngine(g *fakeGoogle, p *fakePexels, gp *fakeGiphy, c *fakeChat) *Engine {
	if g == nil {
		g = &fakeGoogle{}
	}
	if p == nil {
		p = &fakePexels{}
	}
	if gp == nil {
		gp = &fakeGiphy{}
	}
	if c == nil {
		c = &fakeChat{}
	}
	return NewEngine(g, p, gp, c)
}

func classification(in intent.Intent, content string) intent.Classification {
	return intent.Classification{Intent: in, Content: content}
}

func TestResolve_UnknownIntent(t *testing.T) {
	e := newTestEngine(nil, nil, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.Unknown, "gibberish"), nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, unknownAnswer, got.Attribution)
}

func TestResolve_AnswerTextApologyShortCircuits(t *testing.T) {
	chat := &fakeChat{reply: "should not be called"}
	e := newTestEngine(nil, nil, nil, chat)

	got := e.Resolve(context.Background(), classification(intent.AnswerText, intent.Apology), nil)

	assert.Equal(t, intent.Apology, got.Attribution)
	assert.Empty(t, chat.gotMsg)
}

func TestResolve_AnswerTextUsesChat(t *testing.T) {
	chat := &fakeChat{reply: "The sky scatters blue light."}
	e := newTestEngine(nil, nil, nil, chat)
	history := []gemini.Message{{Role: "user", Text: "hi"}}

	got := e.Resolve(context.Background(), classification(intent.AnswerText, "why is the sky blue"), history)

	assert.Equal(t, "The sky scatters blue light.", got.Attribution)
	assert.Equal(t, "why is the sky blue", chat.gotMsg)
	assert.Equal(t, history, chat.gotHist)
}

func TestResolve_AnswerTextChatFailureYieldsApology(t *testing.T) {
	chat := &fakeChat{err: errors.New("upstream down")}
	e := newTestEngine(nil, nil, nil, chat)

	got := e.Resolve(context.Background(), classification(intent.AnswerText, "hello"), nil)

	assert.Equal(t, intent.Apology, got.Attribution)
}

func TestResolveImage_SpecificEntityUsesGoogle(t *testing.T) {
	g := &fakeGoogle{images: []serpapi.Image{{Original: "https://img.example/taj.jpg"}}}
	e := newTestEngine(g, nil, nil, nil)

	got := e.Resolve(context.Background(), intent.Classification{
		Intent:    intent.FindImage,
		Content:   "taj mahal",
		ImageType: intent.ImageTypeSpecificEntity,
	}, nil)

	assert.Equal(t, KindImage, got.Kind)
	assert.Equal(t, "https://img.example/taj.jpg", got.Locator)
	assert.Equal(t, "Image of 'taj mahal' from Google.", got.Attribution)
}

func TestResolveImage_GenericConceptUsesPexels(t *testing.T) {
	p := &fakePexels{photos: []pexels.Photo{{Photographer: "Asha"}}}
	p.photos[0].Src.Large = "https://pexels.example/dog.jpg"
	e := newTestEngine(nil, p, nil, nil)

	got := e.Resolve(context.Background(), intent.Classification{
		Intent:    intent.FindImage,
		Content:   "a happy dog",
		ImageType: intent.ImageTypeGenericConcept,
	}, nil)

	assert.Equal(t, KindImage, got.Kind)
	assert.Equal(t, "https://pexels.example/dog.jpg", got.Locator)
	assert.Equal(t, "Photo by Asha on Pexels.", got.Attribution)
}

func TestResolveImage_NotConfigured(t *testing.T) {
	g := &fakeGoogle{imagesErr: serpapi.ErrNotConfigured}
	e := newTestEngine(g, nil, nil, nil)

	got := e.Resolve(context.Background(), intent.Classification{
		Intent:    intent.FindImage,
		Content:   "taj mahal",
		ImageType: intent.ImageTypeSpecificEntity,
	}, nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "Specific image search is not configured.", got.Attribution)
}

func TestResolveImage_EmptyResults(t *testing.T) {
	g := &fakeGoogle{}
	e := newTestEngine(g, nil, nil, nil)

	got := e.Resolve(context.Background(), intent.Classification{
		Intent:    intent.FindImage,
		Content:   "taj mahal",
		ImageType: intent.ImageTypeSpecificEntity,
	}, nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "I couldn't find a Google Image for 'taj mahal'.", got.Attribution)
}

func TestResolveGIF(t *testing.T) {
	gp := &fakeGiphy{gifs: []giphy.GIF{{}}}
	gp.gifs[0].Images.Original.URL = "https://giphy.example/cat.gif"
	e := newTestEngine(nil, nil, gp, nil)

	got := e.Resolve(context.Background(), classification(intent.FindGIF, "dancing cat"), nil)

	assert.Equal(t, KindGIF, got.Kind)
	assert.Equal(t, "https://giphy.example/cat.gif", got.Locator)
	assert.Equal(t, "GIF result for 'dancing cat' from Giphy.", got.Attribution)
}

func TestResolveGIF_TransportError(t *testing.T) {
	gp := &fakeGiphy{err: errors.New("dial tcp: timeout")}
	e := newTestEngine(nil, nil, gp, nil)

	got := e.Resolve(context.Background(), classification(intent.FindGIF, "dancing cat"), nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "Sorry, I couldn't connect to the GIF service.", got.Attribution)
}

func TestResolveStockVideo_PicksWidestMP4(t *testing.T) {
	v := pexels.StockVideo{}
	v.User.Name = "Ravi"
	v.VideoFiles = []pexels.VideoFile{
		{Link: "https://pexels.example/sd.mp4", FileType: "video/mp4", Width: 640},
		{Link: "https://pexels.example/clip.webm", FileType: "video/webm", Width: 4096},
		{Link: "https://pexels.example/hd.mp4", FileType: "video/mp4", Width: 1920},
	}
	p := &fakePexels{videos: []pexels.StockVideo{v}}
	e := newTestEngine(nil, p, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.FindPexelsVideo, "ocean waves"), nil)

	require.Equal(t, KindVideoStream, got.Kind)
	assert.Equal(t, "Video by Ravi on Pexels.", got.Attribution)

	url, err := DecodeStreamToken(got.Locator)
	require.NoError(t, err)
	assert.Equal(t, "https://pexels.example/hd.mp4", url)
}

func TestResolveStockVideo_NoMP4Rendition(t *testing.T) {
	v := pexels.StockVideo{}
	v.VideoFiles = []pexels.VideoFile{
		{Link: "https://pexels.example/clip.webm", FileType: "video/webm", Width: 1920},
	}
	p := &fakePexels{videos: []pexels.StockVideo{v}}
	e := newTestEngine(nil, p, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.FindPexelsVideo, "ocean waves"), nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "I couldn't find a stock video for 'ocean waves'.", got.Attribution)
}

func TestResolveYouTube(t *testing.T) {
	g := &fakeGoogle{videos: []serpapi.Video{
		{Title: "Saiyara (Official Video)", Link: "https://www.youtube.com/watch?v=abc123", Channel: "T-Series", Length: "4:12"},
	}}
	e := newTestEngine(g, nil, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.FindYouTubeVideo, "saiyara song"), nil)

	require.Equal(t, KindVideoEmbed, got.Kind)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", got.Locator)
	assert.Equal(t, "Video: 'Saiyara (Official Video)' on YouTube.", got.Attribution)
}

func TestResolveYouTube_NoResults(t *testing.T) {
	e := newTestEngine(&fakeGoogle{}, nil, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.FindYouTubeVideo, "saiyara song"), nil)

	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "I couldn't find any YouTube video for 'saiyara song'.", got.Attribution)
}

func TestResolveFactCheck_AnswerBoxWins(t *testing.T) {
	res := &serpapi.WebResult{}
	res.AnswerBox.Answer = "8,849 metres"
	res.KnowledgeGraph.Description = "Everest is a mountain."
	g := &fakeGoogle{web: res}
	e := newTestEngine(g, nil, nil, nil)

	got := e.Resolve(context.Background(), classification(intent.FactCheck, "how tall is everest"), nil)

	assert.Equal(t, "8,849 metres", got.Attribution)
}

func TestResolveFactCheck_FallbackOrder(t *testing.T) {
	res := &serpapi.WebResult{}
	res.AnswerBox.Snippet = "From the answer box snippet."
	g := &fakeGoogle{web: res}
	e := newTestEngine(g, nil, nil, nil)
	got := e.Resolve(context.Background(), classification(intent.FactCheck, "q"), nil)
	assert.Equal(t, "From the answer box snippet.", got.Attribution)

	res = &serpapi.WebResult{}
	res.KnowledgeGraph.Description = "From the knowledge graph."
	g.web = res
	got = e.Resolve(context.Background(), classification(intent.FactCheck, "q"), nil)
	assert.Equal(t, "From the knowledge graph.", got.Attribution)

	res = &serpapi.WebResult{}
	res.OrganicResults = []serpapi.OrganicResult{{Snippet: "From the first organic result."}}
	g.web = res
	got = e.Resolve(context.Background(), classification(intent.FactCheck, "q"), nil)
	assert.Equal(t, "From the first organic result.", got.Attribution)
}

func TestResolveFactCheck_EmptySearchFallsBackToChat(t *testing.T) {
	chat := &fakeChat{reply: "Let me explain instead."}
	e := newTestEngine(&fakeGoogle{web: &serpapi.WebResult{}}, nil, nil, chat)

	got := e.Resolve(context.Background(), classification(intent.FactCheck, "obscure question"), nil)

	assert.Equal(t, "Let me explain instead.", got.Attribution)
	assert.Equal(t, "obscure question", chat.gotMsg)
}

func TestResolveFactCheck_SearchErrorFallsBackToChat(t *testing.T) {
	chat := &fakeChat{reply: "Search is down, but here you go."}
	e := newTestEngine(&fakeGoogle{webErr: errors.New("dial tcp: refused")}, nil, nil, chat)

	got := e.Resolve(context.Background(), classification(intent.FactCheck, "q"), nil)

	assert.Equal(t, "Search is down, but here you go.", got.Attribution)
}

func TestStreamTokenRoundTrip(t *testing.T) {
	token := EncodeStreamToken("https://pexels.example/clip.mp4?x=1&y=2")
	url, err := DecodeStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "https://pexels.example/clip.mp4?x=1&y=2", url)

	_, err = DecodeStreamToken("not%%%base64")
	assert.Error(t, err)
}

package resolve

// Kind tells the web layer which envelope field the locator belongs in.
type Kind string

const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindGIF         Kind = "gif"
	KindVideoStream Kind = "video_stream"
	KindVideoEmbed  Kind = "video_embed"
)

// Content is a resolved piece of displayable content. Attribution is always
// set; Locator is empty for the graceful not-found case, in which case the
// attribution text itself is the answer.
type Content struct {
	Kind        Kind
	Locator     string
	Attribution string
}

func textContent(attribution string) Content {
	return Content{Kind: KindText, Attribution: attribution}
}

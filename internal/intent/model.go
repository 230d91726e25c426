package intent

// Intent selects the provider chain used to answer an utterance.
type Intent string

const (
	FactCheck        Intent = "fact_check"
	AnswerText       Intent = "answer_text"
	FindImage        Intent = "find_image"
	FindGIF          Intent = "find_gif"
	FindPexelsVideo  Intent = "find_pexels_video"
	FindYouTubeVideo Intent = "find_youtube_video"
	Unknown          Intent = "unknown"
)

// Image type hints for find_image, deciding entity search vs stock photos.
const (
	ImageTypeSpecificEntity = "specific_entity"
	ImageTypeGenericConcept = "generic_concept"
)

// Apology is the fixed answer used whenever classification cannot produce a
// usable result. The classifier never surfaces an error to its caller.
const Apology = "I'm sorry, I had a problem connecting to the AI. Please try again."

// Classification is the structured result of classifying one utterance.
// Content carries the search keywords, or the verbatim question for the
// conversational intents.
type Classification struct {
	Intent    Intent `json:"intent"`
	Content   string `json:"content"`
	ImageType string `json:"image_type,omitempty"`
}

var validIntents = map[Intent]bool{
	FactCheck:        true,
	AnswerText:       true,
	FindImage:        true,
	FindGIF:          true,
	FindPexelsVideo:  true,
	FindYouTubeVideo: true,
	Unknown:          true,
}

// Valid reports whether i is a recognized intent variant.
func (i Intent) Valid() bool {
	return validIntents[i]
}

package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aura-ai/aura/internal/clients/gemini"
)

// Generator is the single LLM call the classifier depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classifier turns free text into a Classification with one model call.
type Classifier struct {
	llm Generator
}

func NewClassifier(llm Generator) *Classifier {
	return &Classifier{llm: llm}
}

// historyWindow bounds how many prior turns are embedded in the prompt.
const historyWindow = 6

const promptHeader = `Analyze the user's request. Respond with ONLY a valid JSON object.

The JSON must have an "intent" key.
The "intent" can be: "fact_check", "answer_text", "find_image", "find_pexels_video", "find_youtube_video", "find_gif", or "unknown".

- "find_gif": For any request that includes the word "gif" or "giphy". This has high priority.
- "fact_check": For requests asking whether a claim is true.
- "find_image" must also include an "image_type" key: "specific_entity" for a named person, place, or thing, otherwise "generic_concept".
- "unknown": Only when the request makes no sense at all.

Finally, include a "content" key with the search keywords or the verbatim question.

Examples:
User Request: "who was albert einstein" -> {"intent": "answer_text", "content": "who was albert einstein"}
User Request: "shreya ghoshal saiyara song video" -> {"intent": "find_youtube_video", "content": "Shreya Ghoshal Saiyara song"}
User Request: "find a gif of a cat typing" -> {"intent": "find_gif", "content": "cat typing"}
User Request: "can you generate a giphy of harry potter magic" -> {"intent": "find_gif", "content": "harry potter magic"}
User Request: "show me a picture of the taj mahal" -> {"intent": "find_image", "image_type": "specific_entity", "content": "taj mahal"}
User Request: "is it true that goldfish have a three second memory" -> {"intent": "fact_check", "content": "goldfish three second memory"}`

// Classify returns the structured intent for userText. Transport failures,
// malformed JSON, and unrecognized intents all degrade to answer_text with
// the fixed apology; this method never fails.
func (c *Classifier) Classify(ctx context.Context, userText string, history []gemini.Message) Classification {
	reply, err := c.llm.Generate(ctx, buildPrompt(userText, history))
	if err != nil {
		slog.Warn("intent: model call failed", "error", err)
		return apologyClassification()
	}

	var cls Classification
	if err := json.Unmarshal([]byte(stripFences(reply)), &cls); err != nil {
		slog.Warn("intent: unparseable model reply", "error", err, "reply", reply)
		return apologyClassification()
	}

	if !cls.Intent.Valid() {
		slog.Warn("intent: unrecognized intent value", "intent", cls.Intent)
		return apologyClassification()
	}
	return cls
}

func buildPrompt(userText string, history []gemini.Message) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	if len(history) > 0 {
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		b.WriteString("\n\nRecent conversation for context:\n")
		for _, m := range history[start:] {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
		}
	}

	fmt.Fprintf(&b, "\nUser's Request: %q", userText)
	return b.String()
}

// stripFences removes markdown code-block markers the model sometimes wraps
// its JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func apologyClassification() Classification {
	return Classification{Intent: AnswerText, Content: Apology}
}

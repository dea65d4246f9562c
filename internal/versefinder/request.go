package versefinder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultEndpoint is the chat-completions URL requests are addressed to.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

const (
	model        = openai.GPT4
	systemPrompt = "You are a helpful Bible assistant."
	temperature  = 0.7
	maxTokens    = 1500
)

const promptTemplate = `A user is struggling with '%s'.
Return exactly 10 Bible verses that relate to this topic.

Format the verses as a JSON array of objects. Each object must have these keys:
- "verse": the reference (e.g., "Philippians 4:6-7")
- "text": the NIV verse text
- "note": a one-sentence explanation

Output only valid JSON for the array, with no markdown code fences and no commentary.
After the JSON array, add one short, encouraging sentence (e.g., "Take heart, God is near.").
`

// Request is a fully built chat-completion call that has not been sent yet.
type Request struct {
	URL    string
	Header http.Header
	Body   []byte
}

// BuildRequest embeds topic verbatim into the prompt. It does not validate
// topic; blank topics are rejected by callers.
func BuildRequest(topic, apiKey string) Request {
	payload := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(topic)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	// Marshalling plain strings and numbers cannot fail.
	body, _ := json.Marshal(payload)

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+apiKey)
	header.Set("Content-Type", "application/json")

	return Request{
		URL:    DefaultEndpoint,
		Header: header,
		Body:   body,
	}
}

// Prompt returns the user message sent for topic.
func Prompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic)
}

// HTTPRequest binds r to ctx as a POST request.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = r.Header.Clone()
	return req, nil
}

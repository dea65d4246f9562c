package versefinder

import (
	"encoding/json"
)

// chatResponse covers both shapes the API answers with. Content is a pointer
// so a missing or null content field is distinguishable from an empty one.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Interpret classifies a raw API response and, on success, extracts the verse
// list and encouragement from the model's reply. It never fails: every
// problem is reported as a single placeholder record with Err set.
func Interpret(status int, body []byte) QueryResult {
	var resp chatResponse
	decodeErr := json.Unmarshal(body, &resp)

	if status < 200 || status > 299 {
		var detail string
		if decodeErr == nil && resp.Error != nil {
			detail = resp.Error.Message
		}
		return transportFailure(status, nil, detail)
	}

	if decodeErr != nil {
		return malformedFailure()
	}
	if resp.Error != nil {
		return remoteAPIFailure(resp.Error.Message)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return malformedFailure()
	}

	return interpretContent(*resp.Choices[0].Message.Content)
}

func interpretContent(content string) QueryResult {
	candidate := ExtractCandidate(content)
	if !candidate.Found {
		return noVersesFailure(candidate.Encouragement)
	}

	verses, err := ParseVerses(candidate.JSON)
	if err != nil {
		return parseFailure(err)
	}
	if len(verses) == 0 {
		return noVersesFailure(candidate.Encouragement)
	}

	return QueryResult{
		Verses:        verses,
		Encouragement: candidate.Encouragement,
	}
}

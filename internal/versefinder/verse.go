// Package versefinder asks a chat-completion API for scripture references on a
// topic and turns the model's semi-structured reply into verse records.
package versefinder

import (
	"errors"
	"fmt"
	"net/http"
)

// VerseRecord is one scripture citation returned by the model, or a
// placeholder describing why none could be produced.
type VerseRecord struct {
	Reference string `json:"verse"`
	Text      string `json:"text"`
	Note      string `json:"note"`
}

// QueryResult is the outcome of a single lookup. Verses always holds at least
// one entry; on failure it is a single placeholder record and Err wraps one of
// the Err* kinds below.
type QueryResult struct {
	Verses        []VerseRecord
	Encouragement string
	Err           error
}

// Failed reports whether the result describes a failure rather than verses.
func (r QueryResult) Failed() bool {
	return r.Err != nil
}

var (
	ErrTransport         = errors.New("transport failure")
	ErrRemoteAPI         = errors.New("remote API error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrParse             = errors.New("could not parse response")
	ErrNoVerses          = errors.New("no verses found")
)

// RetryHint is shown as the encouragement when the API itself reported an error.
const RetryHint = "Something went wrong while looking up verses. Please try again in a moment."

const errorReference = "Error"

func failure(err error, record VerseRecord, encouragement string) QueryResult {
	return QueryResult{
		Verses:        []VerseRecord{record},
		Encouragement: encouragement,
		Err:           err,
	}
}

// transportFailure covers both a non-2xx status and a call that never produced
// a usable response (status 0 or an unreadable body).
func transportFailure(status int, cause error, detail string) QueryResult {
	if cause != nil {
		return failure(
			fmt.Errorf("%w: %w", ErrTransport, cause),
			VerseRecord{
				Reference: errorReference,
				Text:      "Could not reach the verse service.",
				Note:      cause.Error(),
			},
			"",
		)
	}

	if detail == "" {
		detail = http.StatusText(status)
	}
	return failure(
		fmt.Errorf("%w: HTTP %d", ErrTransport, status),
		VerseRecord{
			Reference: errorReference,
			Text:      fmt.Sprintf("The verse service returned HTTP status %d.", status),
			Note:      detail,
		},
		"",
	)
}

func remoteAPIFailure(message string) QueryResult {
	note := message
	if note == "" {
		note = "The service did not describe the error."
	}
	return failure(
		fmt.Errorf("%w: %s", ErrRemoteAPI, message),
		VerseRecord{
			Reference: errorReference,
			Text:      "The verse service reported an error.",
			Note:      note,
		},
		RetryHint,
	)
}

func malformedFailure() QueryResult {
	return failure(
		ErrMalformedResponse,
		VerseRecord{
			Reference: errorReference,
			Text:      "No valid response from the verse service.",
		},
		"",
	)
}

func parseFailure(cause error) QueryResult {
	return failure(
		fmt.Errorf("%w: %w", ErrParse, cause),
		VerseRecord{
			Reference: errorReference,
			Text:      "Could not parse response.",
			Note:      cause.Error(),
		},
		"",
	)
}

// noVersesFailure keeps the encouragement since it was scoped successfully.
func noVersesFailure(encouragement string) QueryResult {
	return failure(
		ErrNoVerses,
		VerseRecord{
			Reference: "No verses found",
			Text:      "The response did not contain any verses.",
			Note:      "Try describing the topic in a few different words.",
		},
		encouragement,
	)
}

package server

import (
	"embed"

	"derrclan.com/verse-finder/internal/versefinder"
)

//go:embed web/*.html web/*.css
var web embed.FS

// pageData is what index.html renders.
type pageData struct {
	// Topic refills the search box.
	Topic string
	// LastTopic is the topic the listed verses answer.
	LastTopic     string
	Searched      bool
	Verses        []versefinder.VerseRecord
	Encouragement string
	// Failed highlights Verses as an error explanation.
	Failed bool
}

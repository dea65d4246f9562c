package versefinder

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Candidate
	}{
		{
			name:    "fenced array with trailing sentence",
			content: "```json\n[{\"verse\":\"John 3:16\"}]\n```\nBe strong.",
			want: Candidate{
				JSON:          `[{"verse":"John 3:16"}]`,
				Encouragement: "Be strong.",
				Found:         true,
			},
		},
		{
			name:    "leading prose is dropped",
			content: `Here you go: [{"verse":"Psalm 23:1"}] Take heart, God is near.`,
			want: Candidate{
				JSON:          `[{"verse":"Psalm 23:1"}]`,
				Encouragement: "Take heart, God is near.",
				Found:         true,
			},
		},
		{
			name:    "stray punctuation and braces before encouragement",
			content: "[{\"verse\":\"A\"}]\n}.\n - Stay hopeful!",
			want: Candidate{
				JSON:          `[{"verse":"A"}]`,
				Encouragement: "Stay hopeful!",
				Found:         true,
			},
		},
		{
			name:    "quoted encouragement keeps its quotes",
			content: "[{\"verse\":\"A\"}]\n\"Take heart, God is near.\"",
			want: Candidate{
				JSON:          `[{"verse":"A"}]`,
				Encouragement: `"Take heart, God is near."`,
				Found:         true,
			},
		},
		{
			name:    "parenthesised encouragement",
			content: `[{"verse":"A"}] (You are loved.)`,
			want: Candidate{
				JSON:          `[{"verse":"A"}]`,
				Encouragement: "(You are loved.)",
				Found:         true,
			},
		},
		{
			name:    "nothing after array",
			content: `[{"verse":"A"}]`,
			want: Candidate{
				JSON:  `[{"verse":"A"}]`,
				Found: true,
			},
		},
		{
			name:    "span runs from first open to last close",
			content: `[{"verse":"A","note":"see [1]"}] ok`,
			want: Candidate{
				JSON:          `[{"verse":"A","note":"see [1]"}]`,
				Encouragement: "ok",
				Found:         true,
			},
		},
		{
			name:    "no brackets at all",
			content: "  I cannot help with that, but God loves you.  ",
			want: Candidate{
				JSON:          "[]",
				Encouragement: "I cannot help with that, but God loves you.",
			},
		},
		{
			name:    "close bracket before open bracket",
			content: "oops] then [ never closed",
			want: Candidate{
				JSON:          "[]",
				Encouragement: "then [ never closed",
			},
		},
		{
			name:    "open bracket without close",
			content: "Sorry [I could not format that",
			want: Candidate{
				JSON:          "[]",
				Encouragement: "Sorry [I could not format that",
			},
		},
		{
			name:    "empty content",
			content: "",
			want:    Candidate{JSON: "[]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCandidate(tt.content)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractCandidate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVerses(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      []VerseRecord
	}{
		{
			name:      "lowercase keys",
			candidate: `[{"verse":"John 3:16","text":"For God so loved the world","note":"God's love."}]`,
			want: []VerseRecord{
				{Reference: "John 3:16", Text: "For God so loved the world", Note: "God's love."},
			},
		},
		{
			name:      "case-varied keys",
			candidate: `[{"Verse":"John 3:16","TEXT":"For God so loved the world","Note":"God's love."}]`,
			want: []VerseRecord{
				{Reference: "John 3:16", Text: "For God so loved the world", Note: "God's love."},
			},
		},
		{
			name:      "exact key wins over case variant",
			candidate: `[{"VERSE":"upper","verse":"lower"}]`,
			want: []VerseRecord{
				{Reference: "lower"},
			},
		},
		{
			name:      "partial elements keep their neighbours",
			candidate: `[{"verse":"Psalm 46:1"},{"text":"Be still"},{"note":"n","extra":true}]`,
			want: []VerseRecord{
				{Reference: "Psalm 46:1"},
				{Text: "Be still"},
				{Note: "n"},
			},
		},
		{
			name:      "null values and null elements are empty",
			candidate: `[{"verse":"Psalm 23:1","text":null}, null]`,
			want: []VerseRecord{
				{Reference: "Psalm 23:1"},
				{},
			},
		},
		{
			name:      "order is preserved",
			candidate: `[{"verse":"B"},{"verse":"A"},{"verse":"C"}]`,
			want: []VerseRecord{
				{Reference: "B"},
				{Reference: "A"},
				{Reference: "C"},
			},
		},
		{
			name:      "empty array",
			candidate: `[]`,
			want:      []VerseRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerses(tt.candidate)
			if err != nil {
				t.Fatalf("ParseVerses failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseVerses() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVerses_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		wantMsg   string
	}{
		{name: "truncated", candidate: `[{"verse":"A"`, wantMsg: "unexpected end of JSON input"},
		{name: "prose inside brackets", candidate: `[see below]`, wantMsg: "invalid character"},
		{name: "two arrays", candidate: `[1] and [2]`, wantMsg: "invalid character"},
		{name: "string element", candidate: `[{"verse":"A"},"B"]`, wantMsg: "element 1: expected object, got string"},
		{name: "number element", candidate: `[7]`, wantMsg: "element 0: expected object, got number"},
		{name: "nested array element", candidate: `[[{"verse":"A"}]]`, wantMsg: "element 0: expected object, got array"},
		{name: "number field", candidate: `[{"verse":316}]`, wantMsg: `element 0: field "verse": expected string, got number`},
		{name: "array field", candidate: `[{"verse":"A"},{"Note":["x"]}]`, wantMsg: `element 1: field "note": expected string, got array`},
		{name: "boolean field", candidate: `[{"text":true}]`, wantMsg: `field "text": expected string, got boolean`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerses(tt.candidate)
			if err == nil {
				t.Fatalf("expected error, got %+v", got)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

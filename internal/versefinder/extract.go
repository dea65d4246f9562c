package versefinder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const emptyArray = "[]"

// Candidate is the first phase of reading a model reply: the text that is
// hoped to be a JSON array, plus whatever followed it.
type Candidate struct {
	// JSON spans the first '[' through the last ']' of the cleaned reply, or
	// is "[]" when no such span exists.
	JSON          string
	Encouragement string
	// Found is false when JSON is the "[]" placeholder.
	Found bool
}

// ExtractCandidate strips markdown fences from content and locates the
// embedded array. The encouragement is the text after the last ']', or the
// whole cleaned reply when there is no ']'.
func ExtractCandidate(content string) Candidate {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")

	c := Candidate{JSON: emptyArray}
	if start >= 0 && end > start {
		c.JSON = cleaned[start : end+1]
		c.Found = true
	}

	tail := cleaned
	if end >= 0 {
		tail = cleaned[end+1:]
	}
	c.Encouragement = trimEncouragement(tail)

	return c
}

// trimEncouragement drops separators and stray closing braces left between
// the array and the sentence. Opening quotes and brackets are kept.
func trimEncouragement(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(leadingSeparators, r)
	})
	return strings.TrimSpace(s)
}

const leadingSeparators = "}.,;:-"

// ParseVerses decodes a candidate array. Keys are matched case-insensitively
// and missing or null fields become empty strings; a null element becomes an
// empty record. Any other element that is not an object, or a field value
// that is not a string, fails the whole array.
func ParseVerses(candidate string) ([]VerseRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &elems); err != nil {
		return nil, fmt.Errorf("invalid verse JSON: %w", err)
	}

	verses := make([]VerseRecord, 0, len(elems))
	for i, raw := range elems {
		v, err := decodeVerse(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		verses = append(verses, v)
	}
	return verses, nil
}

func decodeVerse(raw json.RawMessage) (VerseRecord, error) {
	if kind := jsonKind(raw); kind != "object" && kind != "null" {
		return VerseRecord{}, fmt.Errorf("expected object, got %s", kind)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return VerseRecord{}, err
	}

	var v VerseRecord
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"verse", &v.Reference},
		{"text", &v.Text},
		{"note", &v.Note},
	} {
		s, err := lookupString(fields, f.key)
		if err != nil {
			return VerseRecord{}, err
		}
		*f.dst = s
	}
	return v, nil
}

// lookupString prefers an exact key match, then the first case-insensitive
// match in sorted key order.
func lookupString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if strings.EqualFold(k, key) {
				raw, ok = fields[k], true
				break
			}
		}
	}
	if !ok {
		return "", nil
	}

	switch kind := jsonKind(raw); kind {
	case "null":
		return "", nil
	case "string":
	default:
		return "", fmt.Errorf("field %q: expected string, got %s", key, kind)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}
	return s, nil
}

// jsonKind names the type of an already validated JSON value.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

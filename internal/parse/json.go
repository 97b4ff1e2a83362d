package parse

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{[^{}]*\}`)

var ErrNoJSONObject = errors.New("no JSON object in response")

// ExtractJSONObject pulls the first top-level brace-delimited object out of a
// raw model response and decodes it. Model output is untrusted free text:
// markdown fences, commentary before or after the object, and plain garbage
// are all expected, so the caller treats any error here as a normal fallback
// trigger, not an exception.
func ExtractJSONObject(response string) (map[string]any, error) {
	candidate := jsonObjectPattern.FindString(response)
	if candidate == "" {
		// No balanced object found; the whole response might still be JSON
		// once markdown fences are stripped.
		candidate = stripFences(response)
		if candidate == "" {
			return nil, ErrNoJSONObject
		}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		cleaned := stripFences(candidate)
		if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	jsonFenceRegex    = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")
	genericFenceRegex = regexp.MustCompile("(?s)```(.*?)```")
)

// ErrNoJSON is returned when no decodable JSON value could be located in the model output.
var ErrNoJSON = errors.New("llm: no JSON found in response")

// ExtractJSON decodes the first usable JSON value in a free-form model response into v.
// Tried in order: the whole text, a ```json fenced block, any fenced block,
// the outermost {...} slice and finally the outermost [...] slice.
func ExtractJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrNoJSON
	}

	if json.Unmarshal([]byte(text), v) == nil {
		return nil
	}

	for _, re := range []*regexp.Regexp{jsonFenceRegex, genericFenceRegex} {
		if m := re.FindStringSubmatch(text); len(m) == 2 {
			if json.Unmarshal([]byte(strings.TrimSpace(m[1])), v) == nil {
				return nil
			}
		}
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start != -1 && end > start {
			if json.Unmarshal([]byte(text[start:end+1]), v) == nil {
				return nil
			}
		}
	}

	return ErrNoJSON
}

package generator

import (
	"encoding/json"
	"strings"

	"github.com/iRyanRib/genem/internal/models"
)

// Draft is the model's raw question payload before it is promoted to a
// stored question.
type Draft struct {
	Title                    string             `json:"title"`
	Context                  string             `json:"context"`
	AlternativesIntroduction string             `json:"alternatives_introduction"`
	Alternatives             []DraftAlternative `json:"alternatives"`
	CorrectAlternative       string             `json:"correct_alternative"`
	Rationale                string             `json:"rationale"`
	Summary                  string             `json:"summary"`
	Keywords                 []string           `json:"keywords"`
}

type DraftAlternative struct {
	Letter    string `json:"letter"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// ParseDraft extracts the first JSON object from a raw completion and
// validates it into a Draft. Models wrap output in code fences or prose, so
// the object is located with a balanced-brace scan rather than unmarshalling
// the payload directly.
func ParseDraft(raw string) (*Draft, error) {
	cleaned := stripCodeFences(raw)

	obj, ok := extractJSONObject(cleaned)
	if !ok {
		return nil, &ParseError{Msg: "no JSON object found in completion"}
	}

	var draft Draft
	if err := json.Unmarshal([]byte(obj), &draft); err != nil {
		return nil, &ParseError{Msg: "malformed JSON object: " + err.Error()}
	}

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// stripCodeFences removes markdown fences so the brace scan starts from the
// payload itself.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced top-level {...} in s. The scan
// is string aware: braces inside JSON string literals, including escaped
// quotes, do not affect the depth count.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func validateDraft(draft *Draft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return &ParseError{Msg: "draft is missing a title"}
	}
	if strings.TrimSpace(draft.Context) == "" {
		return &ParseError{Msg: "draft is missing a context"}
	}
	if len(draft.Alternatives) != len(models.ValidAlternativeLetters) {
		return &ParseError{Msg: "draft must have exactly 5 alternatives"}
	}

	seen := make(map[string]bool, len(draft.Alternatives))
	for i := range draft.Alternatives {
		letter := strings.ToUpper(strings.TrimSpace(draft.Alternatives[i].Letter))
		if !models.ValidAlternativeLetters[letter] {
			return &ParseError{Msg: "invalid alternative letter: " + draft.Alternatives[i].Letter}
		}
		if seen[letter] {
			return &ParseError{Msg: "duplicate alternative letter: " + letter}
		}
		seen[letter] = true
		draft.Alternatives[i].Letter = letter
		if strings.TrimSpace(draft.Alternatives[i].Text) == "" {
			return &ParseError{Msg: "alternative " + letter + " has no text"}
		}
	}

	correct := strings.ToUpper(strings.TrimSpace(draft.CorrectAlternative))
	if !seen[correct] {
		return &ParseError{Msg: "correct_alternative does not match any alternative: " + draft.CorrectAlternative}
	}
	draft.CorrectAlternative = correct

	// The correctness flag is derived from correct_alternative, never
	// trusted from the model output.
	for i := range draft.Alternatives {
		draft.Alternatives[i].IsCorrect = draft.Alternatives[i].Letter == correct
	}

	return nil
}

package questions

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"intelliview-api/internal/llm"
	"intelliview-api/internal/questionbank"
)

// ParseQuestions decodes a model response into at most limit validated questions.
// Malformed fields are coerced. Items without question text are dropped before
// positions are assigned. A missing, unreadable or effectively empty array fails.
func ParseQuestions(raw string, limit int) ([]GeneratedQuestion, error) {
	raw = llm.CleanJSON(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrGenerationFailed)
	}
	list := gjson.Get(raw, "questions")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing questions array", ErrGenerationFailed)
	}

	var items []gjson.Result
	for _, item := range list.Array() {
		if strings.TrimSpace(questionText(item)) != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty questions array", ErrGenerationFailed)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]GeneratedQuestion, 0, len(items))
	for i, item := range items {
		out = append(out, coerceQuestion(item, i+1))
	}
	return out, nil
}

// questionText is the prompt of a bare-string or object item; anything else has none.
func questionText(item gjson.Result) string {
	switch {
	case item.Type == gjson.String:
		return item.String()
	case item.IsObject():
		return scalar(item.Get("question"))
	default:
		return ""
	}
}

func coerceQuestion(item gjson.Result, position int) GeneratedQuestion {
	q := GeneratedQuestion{
		ID:               fmt.Sprintf("q%d", position),
		Difficulty:       questionbank.DifficultyMedium,
		Category:         questionbank.CategoryTechnical,
		ExpectedKeywords: []string{},
		EstimatedTime:    DefaultEstimatedMinutes,
	}
	if item.Type == gjson.String {
		q.Question = item.String()
		return q
	}
	if !item.IsObject() {
		return q
	}

	if id := strings.TrimSpace(scalar(item.Get("id"))); id != "" {
		q.ID = id
	}
	q.Question = scalar(item.Get("question"))
	q.Context = scalar(item.Get("context"))
	q.Difficulty = CoerceDifficulty(item.Get("difficulty").String())
	q.Category = CoerceCategory(item.Get("category").String())

	if kw := item.Get("expectedKeywords"); kw.IsArray() {
		for _, k := range kw.Array() {
			if s := scalar(k); s != "" {
				q.ExpectedKeywords = append(q.ExpectedKeywords, s)
			}
		}
	}
	if t := item.Get("estimatedTime"); t.Type == gjson.Number && !math.IsNaN(t.Float()) {
		q.EstimatedTime = int(math.Round(t.Float()))
	}
	return q
}

// CoerceDifficulty maps a model-supplied difficulty onto the enumeration, defaulting to MEDIUM.
func CoerceDifficulty(v string) string {
	return coerceEnum(v, questionbank.Difficulties, questionbank.DifficultyMedium)
}

// CoerceCategory maps a model-supplied category onto the enumeration, defaulting to TECHNICAL.
func CoerceCategory(v string) string {
	return coerceEnum(v, questionbank.Categories, questionbank.CategoryTechnical)
}

func coerceEnum(v string, allowed []string, fallback string) string {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, a := range allowed {
		if norm == a {
			return a
		}
	}
	return fallback
}

// scalar returns strings and numbers as text; objects, arrays and null yield "".
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number:
		return r.String()
	case gjson.True, gjson.False:
		return r.Raw
	default:
		return ""
	}
}

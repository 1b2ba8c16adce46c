package questionbank

import (
	"fmt"
	"strings"
)

// Difficulty values accepted for questions.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Category values accepted for questions.
const (
	CategoryTechnical    = "TECHNICAL"
	CategoryBehavioral   = "BEHAVIORAL"
	CategorySystemDesign = "SYSTEM_DESIGN"
	CategoryCoding       = "CODING"
	CategoryHR           = "HR"
)

// Difficulties lists the difficulty vocabulary in ascending order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Categories lists the category vocabulary.
var Categories = []string{CategoryTechnical, CategoryBehavioral, CategorySystemDesign, CategoryCoding, CategoryHR}

// ReferenceQuestion is a known interview question from a company question bank.
type ReferenceQuestion struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	Question         string   `json:"question"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	ExpectedKeywords []string `json:"expectedKeywords"`
}

// EmbeddingText is the text embedded for similarity search.
func (q ReferenceQuestion) EmbeddingText() string {
	return fmt.Sprintf("Company: %s. Role: %s. Question: %s. Category: %s. Difficulty: %s",
		q.Company, q.Role, q.Question, q.Category, q.Difficulty)
}

// Match is a reference question with its similarity score in [0, 1].
type Match struct {
	ReferenceQuestion
	Score float64 `json:"score"`
}

// SearchOptions filters and bounds a similarity search. Empty filters match everything.
type SearchOptions struct {
	Company  string
	Role     string
	Limit    int
	MinScore float64
}

// ResumeVector is the searchable projection of a parsed résumé.
type ResumeVector struct {
	ResumeID string
	UserID   string
	FileName string
	Skills   []string
	Summary  string
	// Text is the document embedded for the vector.
	Text string
}

// ResumeVectorID returns the vector id used for a résumé.
func ResumeVectorID(resumeID string) string {
	return resumeVectorPrefix + resumeID
}

func matchesFilter(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, strings.TrimSpace(got))
}

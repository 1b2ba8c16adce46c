package questions

import (
	"time"

	"intelliview-api/internal/parser"
)

const (
	DefaultNumberOfQuestions = 10
	MaxNumberOfQuestions     = 30
	DefaultEstimatedMinutes  = 3
)

// ResumeRecord is the résumé view the generator reads.
type ResumeRecord struct {
	ID         string
	UserID     string
	OwnerName  string
	OwnerEmail string
	RawText    string
	Skills     []string
	Sections   parser.Sections
}

// DifficultyMix is the requested number of questions per difficulty.
type DifficultyMix struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// DefaultDifficultyMix is used when a request does not specify one.
func DefaultDifficultyMix() DifficultyMix {
	return DifficultyMix{Easy: 2, Medium: 5, Hard: 3}
}

// Request asks for a batch of questions for one résumé and target role.
type Request struct {
	// UserID scopes the lookup to the caller's résumés when set.
	UserID            string
	ResumeID          string
	JobRole           string
	Company           string
	NumberOfQuestions int
	DifficultyMix     *DifficultyMix
}

// GeneratedQuestion is one validated question in a batch.
type GeneratedQuestion struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	ExpectedKeywords []string `json:"expectedKeywords"`
	Context          string   `json:"context"`
	EstimatedTime    int      `json:"estimatedTime"`
}

// Metadata describes a generated batch.
type Metadata struct {
	ResumeID       string    `json:"resumeId"`
	JobRole        string    `json:"jobRole"`
	Company        string    `json:"company,omitempty"`
	GeneratedAt    time.Time `json:"generatedAt"`
	TotalQuestions int       `json:"totalQuestions"`
}

// Result is the outcome of one generation request.
type Result struct {
	Questions []GeneratedQuestion `json:"questions"`
	Metadata  Metadata            `json:"metadata"`
}

package questions

import (
	"fmt"
	"strings"

	"intelliview-api/internal/parser"
	"intelliview-api/internal/questionbank"
)

// MinResumeContextParts is the number of structured parts below which raw text is appended.
const MinResumeContextParts = 3

const (
	rawTextFallbackLimit = 3000
	experienceLimit      = 10
	projectLimit         = 5
	educationLimit       = 3
	referenceLimit       = 10
)

// NoReferenceQuestions is rendered when retrieval found nothing.
const NoReferenceQuestions = "No reference questions available for this role/company."

// BuildResumeContext renders the candidate profile block of the prompt.
func BuildResumeContext(rec ResumeRecord) string {
	var parts []string
	if name := strings.TrimSpace(rec.OwnerName); name != "" {
		parts = append(parts, "Name: "+name)
	}
	if len(rec.Skills) > 0 {
		parts = append(parts, "Technical Skills: "+strings.Join(rec.Skills, ", "))
	}
	if summary := strings.TrimSpace(rec.Sections.Summary); summary != "" {
		parts = append(parts, "Summary: "+summary)
	}
	if lines := firstN(rec.Sections.Experience, experienceLimit); len(lines) > 0 {
		parts = append(parts, "Experience Highlights:\n"+strings.Join(lines, "\n"))
	}
	if lines := firstN(rec.Sections.Projects, projectLimit); len(lines) > 0 {
		parts = append(parts, "Projects:\n"+strings.Join(lines, "\n"))
	}
	if lines := firstN(rec.Sections.Education, educationLimit); len(lines) > 0 {
		parts = append(parts, "Education:\n"+strings.Join(lines, "\n"))
	}

	if len(parts) < MinResumeContextParts && rec.RawText != "" {
		parts = append(parts, "Resume Content:\n"+parser.Truncate(rec.RawText, rawTextFallbackLimit))
	}
	return strings.Join(parts, "\n\n")
}

// BuildReferenceContext renders the top retrieved questions, one numbered line each.
func BuildReferenceContext(matches []questionbank.Match) string {
	if len(matches) == 0 {
		return NoReferenceQuestions
	}
	if len(matches) > referenceLimit {
		matches = matches[:referenceLimit]
	}
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("%d. [%s/%s] %s", i+1, m.Category, m.Difficulty, m.Question)
	}
	return strings.Join(lines, "\n")
}

func firstN(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

package parser

import "strings"

const embeddingFallbackChars = 8000

// EmbeddingText renders the document as the text that represents it in the vector index.
func EmbeddingText(doc ParsedDocument) string {
	s := doc.Sections
	var parts []string
	if s.Summary != "" {
		parts = append(parts, "Professional Summary: "+s.Summary)
	}
	if len(s.Skills) > 0 {
		parts = append(parts, "Technical Skills: "+strings.Join(s.Skills, ", "))
	}
	if len(s.Experience) > 0 {
		parts = append(parts, "Experience: "+strings.Join(head(s.Experience, 10), ". "))
	}
	if len(s.Education) > 0 {
		parts = append(parts, "Education: "+strings.Join(head(s.Education, 5), ". "))
	}
	if len(s.Projects) > 0 {
		parts = append(parts, "Projects: "+strings.Join(head(s.Projects, 5), ". "))
	}
	if len(parts) == 0 {
		return Truncate(doc.RawText, embeddingFallbackChars)
	}
	return strings.Join(parts, "\n\n")
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

// Truncate returns at most n characters of s without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

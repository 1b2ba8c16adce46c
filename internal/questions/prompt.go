package questions

import (
	"fmt"
	"strings"
)

const (
	generationTemperature = 0.8
	generationMaxTokens   = 4000
)

// SystemPrompt fixes the interviewer persona and the JSON output contract.
const SystemPrompt = `You are an expert technical interviewer with deep knowledge of software engineering, system design and behavioral assessment. Generate highly personalized interview questions from a candidate's resume and the target job role.

RULES:
1. Every question must relate directly to the candidate's experience and skills.
2. Balance technical depth with practical application.
3. Probe both strengths and likely growth areas.
4. Never repeat a question.
5. Order questions from easier to harder.
6. Explain for each question why it is relevant.

OUTPUT FORMAT:
Respond with a single JSON object and nothing else. No markdown, no prose outside the JSON.
{
  "questions": [
    {
      "id": "q1",
      "question": "Full question text",
      "difficulty": "EASY|MEDIUM|HARD",
      "category": "TECHNICAL|BEHAVIORAL|SYSTEM_DESIGN|CODING|HR",
      "expectedKeywords": ["keyword1", "keyword2", "keyword3"],
      "context": "Why this question is relevant to the candidate",
      "estimatedTime": 3
    }
  ]
}

CATEGORIES:
- TECHNICAL: languages, frameworks and tools
- BEHAVIORAL: past experiences, answered with the STAR method
- SYSTEM_DESIGN: architecture, scalability and design patterns
- CODING: algorithms, data structures and problem solving
- HR: culture fit, motivation and career goals

DIFFICULTY:
- EASY: fundamentals and simple scenarios
- MEDIUM: applied concepts and trade-off discussions
- HARD: edge cases, optimization and complex system interactions`

// BuildUserPrompt assembles the candidate, target, reference and requirement blocks.
func BuildUserPrompt(resumeContext, referenceContext string, req Request) string {
	mix := DefaultDifficultyMix()
	if req.DifficultyMix != nil {
		mix = *req.DifficultyMix
	}

	var b strings.Builder
	b.WriteString("CANDIDATE PROFILE:\n")
	b.WriteString(resumeContext)
	b.WriteString("\n\nTARGET POSITION:\n")
	fmt.Fprintf(&b, "- Job Role: %s\n", req.JobRole)
	if req.Company != "" {
		fmt.Fprintf(&b, "- Company: %s\n", req.Company)
	}
	b.WriteString("\nREFERENCE QUESTIONS FROM COMPANY QUESTION BANK:\n")
	b.WriteString(referenceContext)
	b.WriteString("\n\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Generate exactly %d unique interview questions\n", req.NumberOfQuestions)
	fmt.Fprintf(&b, "- Difficulty distribution: %d EASY, %d MEDIUM, %d HARD\n", mix.Easy, mix.Medium, mix.Hard)
	b.WriteString("- Tailor the questions to the candidate's specific experience\n")
	b.WriteString("- Cover at least 3 different categories\n")
	b.WriteString("- Reference the candidate's actual projects, skills or experience where possible\n")
	b.WriteString("- Use the reference questions as inspiration only; DO NOT copy them\n")
	b.WriteString("\nGenerate the questions now:")
	return b.String()
}

// RetrievalQuery is the similarity query for reference questions.
func RetrievalQuery(jobRole string, skills []string) string {
	return fmt.Sprintf("%s %s interview questions", jobRole, strings.Join(skills, " "))
}

// Package parser turns raw résumé text into skills and labelled sections.
package parser

import "strings"

// SummaryLineLimit caps how many lines under a summary header form the summary.
const SummaryLineLimit = 5

// ParsedDocument is the structured breakdown of one résumé.
type ParsedDocument struct {
	RawText  string   `json:"rawText"`
	Sections Sections `json:"sections"`
	Metadata Metadata `json:"metadata"`
}

// Sections holds the detected skill vocabulary and the body lines of each section.
// Skills is a set; every other list keeps source order and duplicates.
type Sections struct {
	Skills         []string `json:"skills"`
	SkillLines     []string `json:"skillLines"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	Projects       []string `json:"projects"`
	Certifications []string `json:"certifications"`
	Summary        string   `json:"summary"`
}

// Metadata carries facts from the document converter.
type Metadata struct {
	PageCount int `json:"pageCount"`
}

// Extract runs skill matching over the whole text and a single header-driven
// pass over its non-empty lines.
func Extract(rawText string) ParsedDocument {
	sections := emptySections()
	sections.Skills = extractSkills(rawText)
	walkSections(rawText, &sections)
	return ParsedDocument{RawText: rawText, Sections: sections}
}

func emptySections() Sections {
	return Sections{
		Skills:         []string{},
		SkillLines:     []string{},
		Experience:     []string{},
		Education:      []string{},
		Projects:       []string{},
		Certifications: []string{},
	}
}

func extractSkills(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range skillPatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func walkSections(text string, s *Sections) {
	var (
		current Section
		summary []string
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if section, ok := matchHeader(line); ok {
			current = section
			continue
		}
		switch current {
		case "":
			// before the first header
		case SectionSummary:
			summary = append(summary, line)
		case SectionSkills:
			s.SkillLines = append(s.SkillLines, line)
		case SectionExperience:
			s.Experience = append(s.Experience, line)
		case SectionEducation:
			s.Education = append(s.Education, line)
		case SectionProjects:
			s.Projects = append(s.Projects, line)
		case SectionCertifications:
			s.Certifications = append(s.Certifications, line)
		}
	}
	if len(summary) > SummaryLineLimit {
		summary = summary[:SummaryLineLimit]
	}
	s.Summary = strings.Join(summary, " ")
}

// PopulatedSections names the non-empty parts of the document in a fixed order.
func (d ParsedDocument) PopulatedSections() []string {
	s := d.Sections
	out := []string{}
	if len(s.Skills) > 0 || len(s.SkillLines) > 0 {
		out = append(out, string(SectionSkills))
	}
	if len(s.Experience) > 0 {
		out = append(out, string(SectionExperience))
	}
	if len(s.Education) > 0 {
		out = append(out, string(SectionEducation))
	}
	if len(s.Projects) > 0 {
		out = append(out, string(SectionProjects))
	}
	if len(s.Certifications) > 0 {
		out = append(out, string(SectionCertifications))
	}
	if s.Summary != "" {
		out = append(out, string(SectionSummary))
	}
	return out
}

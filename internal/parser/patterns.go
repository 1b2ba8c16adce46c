package parser

import "regexp"

// Section names a résumé section recognised by the header table.
type Section string

const (
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionSummary        Section = "summary"
)

type skillPattern struct {
	category string
	re       *regexp.Regexp
}

type sectionHeader struct {
	section Section
	re      *regexp.Regexp
}

// wordSet compiles a case-insensitive, word-bounded alternation.
func wordSet(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alternation + `)\b`)
}

// skillPatterns is scanned in order; the first occurrence of a spelling fixes its position.
var skillPatterns = []skillPattern{
	{category: "languages", re: wordSet(`JavaScript|TypeScript|Python|Java|C\+\+|C#|Ruby|Go|Rust|PHP|Swift|Kotlin|Scala|R|MATLAB`)},
	{category: "frameworks", re: wordSet(`React|Angular|Vue|Node\.js|Express|Django|Flask|Spring|\.NET|Rails|Laravel|FastAPI|Next\.js|Nest\.js`)},
	{category: "databases", re: wordSet(`MySQL|PostgreSQL|MongoDB|Redis|Elasticsearch|Cassandra|DynamoDB|SQLite|Oracle|SQL Server|Firebase`)},
	{category: "cloud_devops", re: wordSet(`AWS|Azure|GCP|Docker|Kubernetes|Jenkins|CI/CD|Terraform|Ansible|Linux|Git|GitHub|GitLab`)},
	{category: "ai_ml", re: wordSet(`Machine Learning|Deep Learning|TensorFlow|PyTorch|Scikit-learn|NLP|Computer Vision|OpenAI|LangChain`)},
	{category: "other", re: wordSet(`REST|GraphQL|Microservices|Agile|Scrum|JIRA|Figma|Photoshop|Excel|Power BI|Tableau`)},
}

// sectionHeaders is checked top to bottom and the first match wins, so a line
// mentioning both "education" and "certifications" opens the education section.
var sectionHeaders = []sectionHeader{
	{section: SectionExperience, re: wordSet(`experience|work history|employment|professional background`)},
	{section: SectionEducation, re: wordSet(`education|academic|qualifications|degree`)},
	{section: SectionSkills, re: wordSet(`skills|technical skills|technologies|competencies|expertise`)},
	{section: SectionProjects, re: wordSet(`projects|portfolio|work samples`)},
	{section: SectionCertifications, re: wordSet(`certifications|certificates|licenses|credentials`)},
	{section: SectionSummary, re: wordSet(`summary|objective|profile|about me|professional summary`)},
}

func matchHeader(line string) (Section, bool) {
	for _, h := range sectionHeaders {
		if h.re.MatchString(line) {
			return h.section, true
		}
	}
	return "", false
}

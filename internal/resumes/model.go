package resumes

import (
	"io"
	"time"

	"intelliview-api/internal/parser"
)

// Status is the persisted upload pipeline state of a résumé.
type Status string

const (
	StatusCreated     Status = "created"
	StatusParsed      Status = "parsed"
	StatusParseFailed Status = "parse_failed"
	StatusIndexed     Status = "indexed"
	StatusIndexFailed Status = "index_failed"
)

// Parsed reports whether text extraction has succeeded for the résumé.
func (s Status) Parsed() bool {
	return s == StatusParsed || s == StatusIndexed || s == StatusIndexFailed
}

// ParsedData is the structured part of a parse result stored alongside the raw text.
type ParsedData struct {
	Sections parser.Sections `json:"sections"`
	Metadata parser.Metadata `json:"metadata"`
}

// Resume is an uploaded résumé owned by a user.
type Resume struct {
	ID         string
	UserID     string
	FileName   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	Status     Status
	RawText    string
	Skills     []string
	ParsedData *ParsedData
	ParseError string
	VectorID   string
	IsIndexed  bool
	IndexError string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Sections returns the parsed sections, or empty ones when the résumé was never parsed.
func (r Resume) Sections() parser.Sections {
	if r.ParsedData == nil {
		return parser.Sections{Skills: r.Skills}
	}
	return r.ParsedData.Sections
}

// ParsingOutcome reports the parse stage of an upload.
type ParsingOutcome struct {
	Success           bool
	SkillsFound       int
	SectionsExtracted []string
	Error             string
}

// IndexingOutcome reports the index stage of an upload.
type IndexingOutcome struct {
	Success  bool
	VectorID string
	Error    string
}

// UploadResult is the record after the pipeline ran plus what each stage did.
type UploadResult struct {
	Resume   Resume
	Parsing  ParsingOutcome
	Indexing IndexingOutcome
}

// Download is either a signed URL or an open stream of the stored file.
type Download struct {
	URL       string
	ExpiresAt time.Time
	Body      io.ReadCloser
	FileName  string
	MimeType  string
	SizeBytes int64
}

package resumes

import (
	"time"

	"intelliview-api/internal/parser"
)

// ResumeResponse is the outward-facing summary of a résumé.
type ResumeResponse struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	FileURL         string    `json:"fileUrl"`
	FileSize        int64     `json:"fileSize"`
	MimeType        string    `json:"mimeType"`
	Status          Status    `json:"status"`
	SkillsExtracted []string  `json:"skillsExtracted"`
	IsIndexed       bool      `json:"isIndexed"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ResumeDetailResponse adds the parse outcome to the summary.
type ResumeDetailResponse struct {
	ResumeResponse
	Sections   *parser.Sections `json:"sections,omitempty"`
	PageCount  int              `json:"pageCount,omitempty"`
	ParseError string           `json:"parseError,omitempty"`
	VectorID   string           `json:"vectorId,omitempty"`
	IndexError string           `json:"indexError,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type parsingResponse struct {
	Success           bool     `json:"success"`
	SkillsFound       int      `json:"skillsFound"`
	SectionsExtracted []string `json:"sectionsExtracted"`
	Error             string   `json:"error,omitempty"`
}

type indexingResponse struct {
	Success  bool   `json:"success"`
	VectorID string `json:"vectorId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Resume   ResumeResponse   `json:"resume"`
	Parsing  parsingResponse  `json:"parsing"`
	Indexing indexingResponse `json:"indexing"`
}

type downloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	FileName  string    `json:"fileName"`
}

func toResponse(r Resume) ResumeResponse {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return ResumeResponse{
		ID:              r.ID,
		FileName:        r.FileName,
		FileURL:         "/api/v1/resumes/" + r.ID + "/download",
		FileSize:        r.SizeBytes,
		MimeType:        r.MimeType,
		Status:          r.Status,
		SkillsExtracted: skills,
		IsIndexed:       r.IsIndexed,
		CreatedAt:       r.CreatedAt,
	}
}

func toDetailResponse(r Resume) ResumeDetailResponse {
	out := ResumeDetailResponse{
		ResumeResponse: toResponse(r),
		ParseError:     r.ParseError,
		VectorID:       r.VectorID,
		IndexError:     r.IndexError,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.ParsedData != nil {
		sections := r.ParsedData.Sections
		out.Sections = &sections
		out.PageCount = r.ParsedData.Metadata.PageCount
	}
	return out
}

func toUploadResponse(res UploadResult) UploadResponse {
	sections := res.Parsing.SectionsExtracted
	if sections == nil {
		sections = []string{}
	}
	return UploadResponse{
		Resume: toResponse(res.Resume),
		Parsing: parsingResponse{
			Success:           res.Parsing.Success,
			SkillsFound:       res.Parsing.SkillsFound,
			SectionsExtracted: sections,
			Error:             res.Parsing.Error,
		},
		Indexing: indexingResponse{
			Success:  res.Indexing.Success,
			VectorID: res.Indexing.VectorID,
			Error:    res.Indexing.Error,
		},
	}
}

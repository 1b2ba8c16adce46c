package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"intelliview-api/internal/extract"
	"intelliview-api/internal/parser"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/shared/metrics"
	"intelliview-api/internal/shared/storage/object"
	"intelliview-api/internal/shared/telemetry"
)

// MaxUploadBytes is the largest résumé file accepted.
const MaxUploadBytes = 10 << 20

// DownloadURLTTL is how long a signed download link stays valid.
const DownloadURLTTL = time.Hour

// Indexer stores and removes résumé vectors.
type Indexer interface {
	IndexResume(ctx context.Context, v questionbank.ResumeVector) (string, error)
	DeleteResume(ctx context.Context, resumeID string) error
}

// Service runs the upload pipeline and serves résumé records.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Index Indexer
	Now   func() time.Time
}

func NewService(store object.ObjectStore, repo Repo, index Indexer) *Service {
	return &Service{Store: store, Repo: repo, Index: index, Now: time.Now}
}

// Upload stores the file and a created record, then parses and indexes it.
// Only the store stage is fatal; parse and index failures are recorded on the
// record and reported in the result without undoing earlier stages.
func (s *Service) Upload(ctx context.Context, userID, fileName, declaredType string, data []byte) (UploadResult, error) {
	fileName = strings.TrimSpace(fileName)
	if userID == "" || fileName == "" {
		return UploadResult{}, fmt.Errorf("%w: user and file name are required", ErrInvalidInput)
	}
	if len(data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(data) > MaxUploadBytes {
		return UploadResult{}, ErrTooLarge
	}
	mimeType := extract.NormalizeMimeType(declaredType, fileName, data)
	if !extract.Supported(mimeType) {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	rec, err := s.store(ctx, userID, fileName, mimeType, data)
	if err != nil {
		return UploadResult{}, err
	}
	result := UploadResult{Resume: rec}

	doc, err := s.parse(ctx, &result)
	if err != nil {
		s.stageFailed(rec, &StageError{Stage: StageParse, Err: err})
		return result, nil
	}
	if err := s.index(ctx, &result, doc); err != nil {
		s.stageFailed(rec, &StageError{Stage: StageIndex, Err: err})
	}
	return result, nil
}

func (s *Service) store(ctx context.Context, userID, fileName, mimeType string, data []byte) (Resume, error) {
	key, size, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Resume{}, &StageError{Stage: StageStore, Err: err}
	}
	now := s.now()
	rec := Resume{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		StorageKey: key,
		MimeType:   mimeType,
		SizeBytes:  size,
		Status:     StatusCreated,
		Skills:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("resumes.orphan_object", map[string]any{"storage_key": key, "error": delErr.Error()})
		}
		return Resume{}, &StageError{Stage: StageStore, Err: err}
	}
	metrics.IncUploadStage(metrics.StageStored)
	return rec, nil
}

func (s *Service) parse(ctx context.Context, result *UploadResult) (parser.ParsedDocument, error) {
	rec := &result.Resume
	doc, err := s.extractStored(ctx, *rec)
	if err == nil {
		data := ParsedData{Sections: doc.Sections, Metadata: doc.Metadata}
		if err = s.Repo.MarkParsed(ctx, rec.ID, doc.RawText, data, s.now()); err == nil {
			rec.Status = StatusParsed
			rec.RawText = doc.RawText
			rec.Skills = doc.Sections.Skills
			rec.ParsedData = &data
			result.Parsing = ParsingOutcome{
				Success:           true,
				SkillsFound:       len(doc.Sections.Skills),
				SectionsExtracted: doc.PopulatedSections(),
			}
			return doc, nil
		}
	}

	rec.Status = StatusParseFailed
	rec.ParseError = err.Error()
	result.Parsing = ParsingOutcome{SectionsExtracted: []string{}, Error: err.Error()}
	metrics.IncUploadStage(metrics.StageParseFailed)
	if markErr := s.Repo.MarkParseFailed(ctx, rec.ID, err.Error(), s.now()); markErr != nil {
		telemetry.Error("resumes.state_update_failed", map[string]any{"resume_id": rec.ID, "error": markErr.Error()})
	}
	return parser.ParsedDocument{}, err
}

func (s *Service) extractStored(ctx context.Context, rec Resume) (parser.ParsedDocument, error) {
	body, err := s.Store.Open(ctx, rec.StorageKey)
	if err != nil {
		return parser.ParsedDocument{}, fmt.Errorf("open stored file: %w", err)
	}
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, MaxUploadBytes+1))
	if err != nil {
		return parser.ParsedDocument{}, fmt.Errorf("read stored file: %w", err)
	}
	text, err := extract.TextFromBytes(ctx, data, rec.MimeType, rec.FileName)
	if err != nil {
		return parser.ParsedDocument{}, err
	}
	doc := parser.Extract(text.Content)
	doc.Metadata.PageCount = text.PageCount
	return doc, nil
}

func (s *Service) index(ctx context.Context, result *UploadResult, doc parser.ParsedDocument) error {
	rec := &result.Resume
	vectorID, err := s.Index.IndexResume(ctx, questionbank.ResumeVector{
		ResumeID: rec.ID,
		UserID:   rec.UserID,
		FileName: rec.FileName,
		Skills:   doc.Sections.Skills,
		Summary:  doc.Sections.Summary,
		Text:     parser.EmbeddingText(doc),
	})
	if err == nil {
		if err = s.Repo.MarkIndexed(ctx, rec.ID, vectorID, s.now()); err == nil {
			rec.Status = StatusIndexed
			rec.VectorID = vectorID
			rec.IsIndexed = true
			result.Indexing = IndexingOutcome{Success: true, VectorID: vectorID}
			metrics.IncUploadStage(metrics.StageIndexed)
			return nil
		}
	}

	rec.Status = StatusIndexFailed
	rec.IsIndexed = false
	rec.IndexError = err.Error()
	result.Indexing = IndexingOutcome{Error: err.Error()}
	metrics.IncUploadStage(metrics.StageIndexFailed)
	if markErr := s.Repo.MarkIndexFailed(ctx, rec.ID, err.Error(), s.now()); markErr != nil {
		telemetry.Error("resumes.state_update_failed", map[string]any{"resume_id": rec.ID, "error": markErr.Error()})
	}
	return err
}

func (s *Service) stageFailed(rec Resume, err *StageError) {
	telemetry.Warn("resumes.stage_failed", map[string]any{
		"resume_id": rec.ID,
		"user_id":   rec.UserID,
		"stage":     err.Stage,
		"error":     err.Err.Error(),
	})
}

// List returns the caller's résumés, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Get returns one of the caller's résumés.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if userID == "" || id == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetForUser(ctx, userID, id)
}

// Count returns how many résumés the user has uploaded.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.CountByUser(ctx, userID)
}

// Delete removes the vector, the stored file and the record. Only the record
// deletion can fail the call; the other two are logged.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if rec.VectorID != "" || rec.IsIndexed {
		if err := s.Index.DeleteResume(ctx, rec.ID); err != nil {
			telemetry.Warn("resumes.vector_delete_failed", map[string]any{"resume_id": rec.ID, "error": err.Error()})
		}
	}
	if err := s.Store.Delete(ctx, rec.StorageKey); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("resumes.object_delete_failed", map[string]any{"resume_id": rec.ID, "error": err.Error()})
	}
	return s.Repo.Delete(ctx, rec.ID)
}

// Download returns a signed URL when the store supports one, otherwise an open stream.
func (s *Service) Download(ctx context.Context, userID, id string) (Download, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return Download{}, err
	}
	out := Download{FileName: rec.FileName, MimeType: rec.MimeType, SizeBytes: rec.SizeBytes}
	if signer, ok := s.Store.(object.URLSigner); ok {
		url, err := signer.SignedURL(ctx, rec.StorageKey, rec.FileName, DownloadURLTTL)
		if err != nil {
			return Download{}, fmt.Errorf("sign download url: %w", err)
		}
		out.URL = url
		out.ExpiresAt = s.now().Add(DownloadURLTTL)
		return out, nil
	}
	body, err := s.Store.Open(ctx, rec.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Download{}, ErrNotFound
		}
		return Download{}, err
	}
	out.Body = body
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

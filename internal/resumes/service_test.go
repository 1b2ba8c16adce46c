package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/shared/storage/object"
	"intelliview-api/internal/shared/storage/object/local"
)

type fakeIndexer struct {
	err       error
	deleteErr error
	indexed   []questionbank.ResumeVector
	deleted   []string
}

func (f *fakeIndexer) IndexResume(ctx context.Context, v questionbank.ResumeVector) (string, error) {
	f.indexed = append(f.indexed, v)
	if f.err != nil {
		return "", f.err
	}
	return questionbank.ResumeVectorID(v.ResumeID), nil
}

func (f *fakeIndexer) DeleteResume(ctx context.Context, resumeID string) error {
	f.deleted = append(f.deleted, resumeID)
	return f.deleteErr
}

// trackingStore counts deletes and can fail saves.
type trackingStore struct {
	object.ObjectStore
	saveErr error
	deletes []string
}

func (s *trackingStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.saveErr != nil {
		return "", 0, "", s.saveErr
	}
	return s.ObjectStore.Save(ctx, userID, fileName, r)
}

func (s *trackingStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.ObjectStore.Delete(ctx, key)
}

type signingStore struct {
	*trackingStore
}

func (s signingStore) SignedURL(ctx context.Context, key, fileName string, ttl time.Duration) (string, error) {
	return "https://files.example.test/" + key + "?ttl=" + ttl.String(), nil
}

type failingCreateRepo struct {
	*MemoryRepo
}

func (failingCreateRepo) Create(context.Context, Resume) error {
	return errors.New("insert failed")
}

var fixedNow = time.Date(2026, time.April, 6, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *trackingStore, *MemoryRepo, *fakeIndexer) {
	t.Helper()
	store := &trackingStore{ObjectStore: local.New(t.TempDir())}
	repo := NewMemoryRepo()
	idx := &fakeIndexer{}
	svc := NewService(store, repo, idx)
	svc.Now = func() time.Time { return fixedNow }
	return svc, store, repo, idx
}

func docxFixture(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t>` + line + `</w:t></w:r></w:p>`)
	}
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestUploadRunsAllStages(t *testing.T) {
	svc, _, repo, idx := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Python, PostgreSQL, Docker"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if res.Resume.Status != StatusIndexed || !res.Resume.IsIndexed {
		t.Fatalf("expected indexed resume, got %+v", res.Resume)
	}
	if !res.Parsing.Success || res.Parsing.SkillsFound != 3 {
		t.Fatalf("unexpected parsing outcome %+v", res.Parsing)
	}
	if len(res.Parsing.SectionsExtracted) != 1 || res.Parsing.SectionsExtracted[0] != "skills" {
		t.Fatalf("unexpected sections %v", res.Parsing.SectionsExtracted)
	}
	wantVector := "resume_" + res.Resume.ID
	if !res.Indexing.Success || res.Indexing.VectorID != wantVector {
		t.Fatalf("unexpected indexing outcome %+v", res.Indexing)
	}

	if len(idx.indexed) != 1 {
		t.Fatalf("expected one index call, got %d", len(idx.indexed))
	}
	if got := idx.indexed[0].Text; got != "Technical Skills: Python, PostgreSQL, Docker" {
		t.Fatalf("unexpected embedding text %q", got)
	}

	stored, err := repo.Get(ctx, res.Resume.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusIndexed || stored.VectorID != wantVector || stored.RawText == "" {
		t.Fatalf("unexpected stored record %+v", stored)
	}
	if stored.ParsedData == nil || len(stored.ParsedData.Sections.SkillLines) != 1 {
		t.Fatalf("expected parsed sections to be stored, got %+v", stored.ParsedData)
	}
	if !stored.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected createdAt from clock, got %v", stored.CreatedAt)
	}
}

func TestUploadParseFailureKeepsRecordAndFile(t *testing.T) {
	svc, store, repo, idx := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "u-1", "cv.pdf", "application/pdf", []byte("%PDF-1.4 not really a pdf"))
	if err != nil {
		t.Fatalf("upload should survive parse failure: %v", err)
	}
	if res.Resume.Status != StatusParseFailed || res.Parsing.Success || res.Parsing.Error == "" {
		t.Fatalf("expected parse_failed, got %+v / %+v", res.Resume, res.Parsing)
	}
	if res.Indexing.Success || len(idx.indexed) != 0 {
		t.Fatalf("index stage must not run after a parse failure")
	}

	stored, err := repo.Get(ctx, res.Resume.ID)
	if err != nil {
		t.Fatalf("record should be retained: %v", err)
	}
	if stored.Status != StatusParseFailed || stored.ParseError == "" {
		t.Fatalf("unexpected stored record %+v", stored)
	}
	body, err := store.Open(ctx, stored.StorageKey)
	if err != nil {
		t.Fatalf("file should be retained: %v", err)
	}
	_ = body.Close()
}

func TestUploadIndexFailureKeepsParse(t *testing.T) {
	svc, store, repo, idx := newTestService(t)
	idx.err = errors.New("embedding provider down")
	ctx := context.Background()

	res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go, Redis"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Parsing.Success {
		t.Fatalf("parse should succeed: %+v", res.Parsing)
	}
	if res.Indexing.Success || !strings.Contains(res.Indexing.Error, "embedding provider down") {
		t.Fatalf("unexpected indexing outcome %+v", res.Indexing)
	}

	stored, err := repo.Get(ctx, res.Resume.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusIndexFailed || stored.IsIndexed || stored.IndexError == "" {
		t.Fatalf("unexpected stored record %+v", stored)
	}
	if len(stored.Skills) != 2 {
		t.Fatalf("parsed skills must survive an index failure, got %v", stored.Skills)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("no compensating delete expected, got %v", store.deletes)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u-1", "notes.txt", "text/plain", []byte("just text"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if n, _ := repo.CountByUser(ctx, "u-1"); n != 0 {
		t.Fatalf("no record expected, got %d", n)
	}
}

func TestUploadStoreStageIsFatal(t *testing.T) {
	t.Run("object store", func(t *testing.T) {
		svc, store, _, _ := newTestService(t)
		store.saveErr = errors.New("disk full")

		_, err := svc.Upload(context.Background(), "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
		var stageErr *StageError
		if !errors.As(err, &stageErr) || stageErr.Stage != StageStore {
			t.Fatalf("expected store StageError, got %v", err)
		}
	})

	t.Run("record insert removes the object", func(t *testing.T) {
		svc, store, repo, _ := newTestService(t)
		svc.Repo = failingCreateRepo{repo}

		_, err := svc.Upload(context.Background(), "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
		var stageErr *StageError
		if !errors.As(err, &stageErr) || stageErr.Stage != StageStore {
			t.Fatalf("expected store StageError, got %v", err)
		}
		if len(store.deletes) != 1 {
			t.Fatalf("expected orphaned object to be deleted, got %v", store.deletes)
		}
	})
}

func TestGetIsScopedToOwner(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Get(ctx, "u-2", res.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}
	if err := svc.Delete(ctx, "u-2", res.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting another user's resume, got %v", err)
	}
}

func TestDeleteRemovesVectorObjectAndRecord(t *testing.T) {
	svc, store, repo, idx := newTestService(t)
	ctx := context.Background()
	res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	idx.deleteErr = errors.New("vector store unreachable")

	if err := svc.Delete(ctx, "u-1", res.Resume.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != res.Resume.ID {
		t.Fatalf("expected vector delete, got %v", idx.deleted)
	}
	if len(store.deletes) != 1 || store.deletes[0] != res.Resume.StorageKey {
		t.Fatalf("expected object delete, got %v", store.deletes)
	}
	if _, err := repo.Get(ctx, res.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	t.Run("local store streams", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		ctx := context.Background()
		data := docxFixture(t, "SKILLS", "Go")
		res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, data)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}

		dl, err := svc.Download(ctx, "u-1", res.Resume.ID)
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		defer dl.Body.Close()
		got, err := io.ReadAll(dl.Body)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, data) || dl.URL != "" {
			t.Fatalf("expected streamed original bytes")
		}
	})

	t.Run("signing store returns url", func(t *testing.T) {
		svc, store, _, _ := newTestService(t)
		svc.Store = signingStore{store}
		ctx := context.Background()
		res, err := svc.Upload(ctx, "u-1", "cv.docx", docxType, docxFixture(t, "SKILLS", "Go"))
		if err != nil {
			t.Fatalf("upload: %v", err)
		}

		dl, err := svc.Download(ctx, "u-1", res.Resume.ID)
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if dl.Body != nil || !strings.Contains(dl.URL, "ttl=1h0m0s") {
			t.Fatalf("unexpected download %+v", dl)
		}
		if !dl.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
			t.Fatalf("unexpected expiry %v", dl.ExpiresAt)
		}
	})
}

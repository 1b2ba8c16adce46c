package questionbank

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGIndexUpsertQuestionsUsesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	idx := NewPGIndex(db)
	q := ReferenceQuestion{
		ID:               "q-1",
		Company:          "Uber",
		Role:             "Software Engineer",
		Question:         "Find the shortest path.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"Dijkstra", "A*"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reference_questions").
		WithArgs("q-1", "Uber", "Software Engineer", "Find the shortest path.", CategoryCoding, DifficultyMedium,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := idx.UpsertQuestions(context.Background(), []ReferenceQuestion{q}, [][]float32{{0.1, 0.2}}); err != nil {
		t.Fatalf("UpsertQuestions: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGIndexUpsertQuestionsRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reference_questions").WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err = NewPGIndex(db).UpsertQuestions(context.Background(),
		[]ReferenceQuestion{{ID: "q-1"}}, [][]float32{{1}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGIndexQueryQuestionsScansMatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "company", "role", "question", "category", "difficulty", "keywords", "score"}).
		AddRow("q-1", "Stripe", "Software Engineer", "Implement a rate limiter.", CategoryCoding, DifficultyMedium, "{\"token bucket\",Redis}", 0.91)
	mock.ExpectQuery("SELECT id, company, role, question, category, difficulty, keywords").
		WithArgs(sqlmock.AnyArg(), "Stripe", "Software Engineer", 0.5, 15).
		WillReturnRows(rows)

	matches, err := NewPGIndex(db).QueryQuestions(context.Background(), []float32{0.3, 0.4}, SearchOptions{
		Company:  "Stripe",
		Role:     "Software Engineer",
		Limit:    15,
		MinScore: 0.5,
	})
	if err != nil {
		t.Fatalf("QueryQuestions: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	got := matches[0]
	if got.ID != "q-1" || got.Score != 0.91 {
		t.Fatalf("unexpected match %+v", got)
	}
	if len(got.ExpectedKeywords) != 2 || got.ExpectedKeywords[0] != "token bucket" || got.ExpectedKeywords[1] != "Redis" {
		t.Fatalf("unexpected keywords %v", got.ExpectedKeywords)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGIndexResumeVectorLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	idx := NewPGIndex(db)
	mock.ExpectExec("INSERT INTO resume_vectors").
		WithArgs("resume_r-1", "r-1", "u-1", "cv.pdf", sqlmock.AnyArg(), "summary", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM resume_vectors").
		WithArgs("resume_r-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	v := ResumeVector{ResumeID: "r-1", UserID: "u-1", FileName: "cv.pdf", Skills: []string{"Go"}, Summary: "summary"}
	if err := idx.UpsertResume(context.Background(), "resume_r-1", v, []float32{1, 0}); err != nil {
		t.Fatalf("UpsertResume: %v", err)
	}
	if err := idx.DeleteResume(context.Background(), "resume_r-1"); err != nil {
		t.Fatalf("DeleteResume: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

package main

// Generate interview questions for a local résumé file without the HTTP stack:
//   go run ./cmd/prompttest -resume cv.pdf -role "Backend Engineer" -company Google

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"intelliview-api/internal/bootstrap"
	"intelliview-api/internal/extract"
	"intelliview-api/internal/parser"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/questions"
	"intelliview-api/internal/shared/config"
)

const localResumeID = "local"

// fileFinder serves the single résumé read from disk.
type fileFinder struct {
	rec questions.ResumeRecord
}

func (f fileFinder) FindByID(_ context.Context, id string) (questions.ResumeRecord, error) {
	if id != f.rec.ID {
		return questions.ResumeRecord{}, questions.ErrNotFound
	}
	return f.rec, nil
}

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf or docx)")
	role := flag.String("role", "Software Engineer", "Target job role")
	company := flag.String("company", "", "Target company (optional)")
	count := flag.Int("n", questions.DefaultNumberOfQuestions, "Number of questions")
	seed := flag.Bool("seed", false, "Index the bundled reference questions in memory first")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	ctx := context.Background()

	data, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	text, err := extract.TextFromBytes(ctx, data, "application/octet-stream", filepath.Base(*resumePath))
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	doc := parser.Extract(text.Content)

	models, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	if !models.Configured {
		exitErr("an LLM provider is required; set LLM_PROVIDER and its API key")
	}

	var bank *questionbank.Bank
	if *seed {
		bank = questionbank.New(models.Embedder, questionbank.NewMemoryIndex())
		if _, err := questionbank.Seed(ctx, bank); err != nil {
			exitErr(fmt.Sprintf("seed: %v", err))
		}
	}

	svc := &questions.Service{
		Resumes: fileFinder{rec: questions.ResumeRecord{
			ID:       localResumeID,
			RawText:  doc.RawText,
			Skills:   doc.Sections.Skills,
			Sections: doc.Sections,
		}},
		LLM: models.Generator,
	}
	if bank != nil {
		svc.Bank = bank
	}

	result, err := svc.Generate(ctx, questions.Request{
		ResumeID:          localResumeID,
		JobRole:           *role,
		Company:           *company,
		NumberOfQuestions: *count,
	})
	if err != nil {
		exitErr(fmt.Sprintf("generate: %v", err))
	}

	raw, err := json.Marshal(result)
	if err != nil {
		exitErr(fmt.Sprintf("encode result: %v", err))
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty.WriteByte('\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty.Bytes(), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty.Bytes()); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

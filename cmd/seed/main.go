package main

// Index the bundled reference questions:
//   go run ./cmd/seed

import (
	"context"
	"flag"
	"log"
	"os"

	"intelliview-api/internal/bootstrap"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/shared/config"
	"intelliview-api/internal/shared/storage/db"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "List the bundled questions without embedding them")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	if *dryRun {
		for _, q := range questionbank.SeedQuestions() {
			log.Printf("%s | %s | %s | %s", q.Company, q.Role, q.Difficulty, q.Question)
		}
		return
	}

	models, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	if !models.Configured {
		log.Fatalf("an embedding provider is required; set LLM_PROVIDER and its API key")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}

	bank := questionbank.New(models.Embedder, questionbank.NewPGIndex(sqlDB))
	n, err := questionbank.Seed(ctx, bank)
	if err != nil {
		log.Printf("seed failed after %d questions: %v", n, err)
		os.Exit(1)
	}
	log.Printf("indexed %d reference questions", n)
}

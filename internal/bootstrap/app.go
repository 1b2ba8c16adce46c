package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/auth"
	"intelliview-api/internal/llm"
	"intelliview-api/internal/llm/gemini"
	"intelliview-api/internal/llm/openai"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/questions"
	"intelliview-api/internal/resumes"
	"intelliview-api/internal/services/health"
	sharedauth "intelliview-api/internal/shared/auth"
	"intelliview-api/internal/shared/config"
	"intelliview-api/internal/shared/server"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/storage/db"
	"intelliview-api/internal/shared/storage/object"
	localstore "intelliview-api/internal/shared/storage/object/local"
	s3store "intelliview-api/internal/shared/storage/object/s3"
	"intelliview-api/internal/shared/telemetry"
	"intelliview-api/internal/usage"
	"intelliview-api/internal/users"
)

// LLM bundles the generator and embedder picked by LLM_PROVIDER.
type LLM struct {
	Generator llm.Generator
	Embedder  llm.Embedder
	// Configured is false when both fall back to llm.Placeholder.
	Configured bool
}

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    LLM
	Issuer *sharedauth.Issuer

	Bank             *questionbank.Bank
	UsersService     *users.Service
	UsageService     *usage.Service
	ResumesService   *resumes.Service
	QuestionsService *questions.Service
}

// Build connects storage, picks providers and wires every handler into the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	models, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	issuer, err := sharedauth.NewIssuer(cfg.JWTSecret, cfg.Env, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    models,
		Issuer: issuer,
	}
	app.Router = buildRouter(app)
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_fallback", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_fallback", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLLM selects the provider named by LLM_PROVIDER. Missing credentials
// outside production degrade to llm.Placeholder so the API still boots.
func BuildLLM(ctx context.Context, cfg config.Config) (LLM, error) {
	placeholder := LLM{Generator: llm.Placeholder{}, Embedder: llm.Placeholder{}}

	var (
		client interface {
			llm.Generator
			llm.Embedder
		}
		err error
	)
	switch cfg.LLMProvider {
	case "none":
		return placeholder, nil
	case "gemini":
		client, err = gemini.NewClient(ctx, gemini.Options{
			APIKey:         cfg.GeminiAPIKey,
			Model:          cfg.LLMModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Dimensions:     cfg.EmbeddingDims,
		})
	default:
		client, err = openai.NewClient(openai.Options{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.LLMModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Dimensions:     cfg.EmbeddingDims,
			BaseURL:        cfg.OpenAIBaseURL,
			Timeout:        cfg.OpenAITimeout,
		})
	}
	if err != nil {
		if cfg.Env == "production" {
			return LLM{}, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
		}
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider, "error": err})
		return placeholder, nil
	}
	return LLM{Generator: client, Embedder: client, Configured: true}, nil
}

func buildRouter(app *App) *gin.Engine {
	cfg := app.Config

	var (
		userRepo   users.Repo
		resumeRepo resumes.Repo
		index      questionbank.Index
		usageSvc   *usage.Service
	)
	policy := usage.Policy{Limit: cfg.WeeklyGenerations}
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		index = questionbank.NewPGIndex(app.DB)
		usageSvc = usage.NewPostgresService(app.DB, policy)
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		index = questionbank.NewMemoryIndex()
		usageSvc = usage.NewService(policy)
	}

	bank := questionbank.New(app.LLM.Embedder, index)
	userSvc := users.NewService(userRepo)
	resumeSvc := resumes.NewService(app.Store, resumeRepo, bank)
	questionSvc := &questions.Service{
		Resumes: questions.RepoFinder{Resumes: resumeRepo, Users: userRepo},
		Bank:    bank,
		LLM:     app.LLM.Generator,
		Usage:   usageSvc,
	}

	var seeder questions.Seeder
	if app.LLM.Configured {
		seeder = func(ctx context.Context) (int, error) { return questionbank.Seed(ctx, bank) }
	}

	sessions := &auth.Sessions{
		Issuer:     app.Issuer,
		Secure:     !cfg.IsDevLike(),
		Principals: userSvc.Principal,
	}
	google := auth.NewGoogleService(auth.GoogleOptions{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
	}, userSvc, sessions)

	app.Bank = bank
	app.UsersService = userSvc
	app.UsageService = usageSvc
	app.ResumesService = resumeSvc
	app.QuestionsService = questionSvc

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}

	return server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Issuer:      app.Issuer,
		Principals:  userSvc.Principal,
		Health:      health.NewService(cfg.Env, pinger),
		Google:      google,
		Sessions:    sessions,
		Stats:       &auth.StatsHandler{Resumes: resumeSvc, Usage: usageSvc},
		Users:       users.NewHandler(userSvc),
		Resumes:     resumes.NewHandler(resumeSvc),
		Questions:   questions.NewHandler(questionSvc, seeder, cfg.IsDevLike()),
		Usage:       usage.NewHandler(usageSvc),
		RateLimiter: middleware.NewRateLimiter(nil),
	})
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/fotoproof/fotoproof/internal/application/ai"
	appforensics "github.com/fotoproof/fotoproof/internal/application/forensics"
	"github.com/fotoproof/fotoproof/internal/config"
	"github.com/fotoproof/fotoproof/internal/domain/analysis"
	"github.com/fotoproof/fotoproof/internal/domain/decision"
	"github.com/fotoproof/fotoproof/internal/domain/pipelineerrors"
	"github.com/fotoproof/fotoproof/internal/domain/review"
	"github.com/fotoproof/fotoproof/internal/infra/ai/openai"
	"github.com/fotoproof/fotoproof/internal/infra/analyzers"
	"github.com/fotoproof/fotoproof/internal/infra/db/memory"
	mysqlp "github.com/fotoproof/fotoproof/internal/infra/db/mysql"
	postgresp "github.com/fotoproof/fotoproof/internal/infra/db/postgres"
	"github.com/fotoproof/fotoproof/internal/infra/httpserver"
	minioStore "github.com/fotoproof/fotoproof/internal/infra/storage"
	"github.com/fotoproof/fotoproof/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// submission + review + error persistence; empty host = in-memory store
	var (
		repo       analysis.Repository
		reviewRepo review.Repository
		errRepo    pipelineerrors.Repository
		sqlDB      *sql.DB
	)
	switch {
	case cfg.Database.Host == "":
		log.Println("no database configured, using in-memory submission store")
		repo = memory.NewSubmissionRepository()
	case cfg.Database.Driver == "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		sqlDB = db
		repo = postgresp.NewSubmissionRepository(db)
		reviewRepo = postgresp.NewReviewRepository(db)
		errRepo = postgresp.NewPipelineErrorRepository(db)
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		sqlDB = db
		repo = mysqlp.NewSubmissionRepository(db)
		reviewRepo = mysqlp.NewReviewRepository(db)
		errRepo = mysqlp.NewPipelineErrorRepository(db)
	}

	// init minio (optional; without it verdicts carry no artifact URLs)
	var (
		artifacts analysis.ArtifactStore
		blobStore *minioStore.Store
	)
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
		blobStore = store
	} else {
		log.Println("no minio configured, artifact uploads disabled")
	}

	// decision policy: defaults plus config overrides
	policy := decision.DefaultPolicy()
	if v := cfg.Forensics.AIConfidenceThreshold; v > 0 {
		policy.AIConfidenceThreshold = v
	}
	if v := cfg.Forensics.AuthenticScore; v > 0 {
		policy.AuthenticScore = v
	}
	if v := cfg.Forensics.SuspiciousScore; v > 0 {
		policy.SuspiciousScore = v
	}
	elaMean := cfg.Forensics.ELAMeanThreshold
	if elaMean <= 0 {
		elaMean = 15
	}

	engine := decision.NewEngine(policy, decision.NewTrail())

	// init service
	svc := &appforensics.Service{
		Analyzers: analyzers.Default(elaMean),
		Engine:    engine,
		Repo:      repo,
		Artifacts: artifacts,
		Errors:    errRepo,
		Clock:     appforensics.SystemClock{},
	}

	// ai reviewer (optional)
	var aiSvc *appai.Service
	if cfg.OpenAI.APIKey != "" {
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		aiSvc = appai.NewService(client, reviewRepo)
	} else {
		log.Println("no openai key configured, ai review disabled")
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if len(cfg.Server.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	} else {
		log.Println("no api keys configured, authentication disabled")
	}

	capacity, refill := cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate
	if capacity <= 0 {
		capacity = 60
	}
	if refill <= 0 {
		refill = 1
	}
	mux.Use(middleware.RateLimitMiddleware(capacity, refill))

	checkers := map[string]middleware.HealthChecker{}
	if sqlDB != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: sqlDB}
	}
	if blobStore != nil {
		checkers["storage"] = middleware.CheckerFunc(blobStore.Check)
	}
	mux.Mount("/", httpserver.NewRouter(svc, aiSvc, middleware.HealthHandler(checkers)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/compliance-review/internal/application"
	appanalyses "github.com/bryanwahyu/compliance-review/internal/application/analyses"
	appassist "github.com/bryanwahyu/compliance-review/internal/application/assist"
	"github.com/bryanwahyu/compliance-review/internal/config"
	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
	aiopenai "github.com/bryanwahyu/compliance-review/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/compliance-review/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/compliance-review/internal/infra/db/postgres"
	"github.com/bryanwahyu/compliance-review/internal/infra/httpserver"
	"github.com/bryanwahyu/compliance-review/internal/infra/memstore"
	minioStore "github.com/bryanwahyu/compliance-review/internal/infra/storage"
	"github.com/bryanwahyu/compliance-review/internal/middleware"
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
	clock := application.SystemClock{}

	// init repository backend
	var repo domain.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewAnalysisRepository(db, clock)
		checkers["mysql"] = &middleware.DatabaseHealthChecker{DB: db}
	case config.DriverPostgres:
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewAnalysisRepository(db, clock)
		checkers["postgres"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		repo = memstore.New(clock)
	}

	// init report archive (optional)
	var archive domain.ReportArchive
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// scoring policy
	policy := domain.MatchAllOccurrences
	if cfg.Scoring.MatchPolicy == config.MatchOnce {
		policy = domain.MatchOncePerKeyword
	}

	// init service
	svc := &appanalyses.Service{
		Repo:    repo,
		Scorer:  domain.Scorer{Policy: policy},
		Archive: archive,
	}

	// init reviewer assist (optional)
	var assistSvc *appassist.Service
	if cfg.AI.Enabled {
		assistSvc = appassist.NewService(aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model))
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.RoleAuth)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/healthz", middleware.HealthHandler(checkers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, assistSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	database "github.com/sebuszqo/BudgetLedger/db"
	"github.com/sebuszqo/BudgetLedger/internal/config"
	"github.com/sebuszqo/BudgetLedger/internal/finance/application"
	"github.com/sebuszqo/BudgetLedger/internal/finance/domain"
	"github.com/sebuszqo/BudgetLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/BudgetLedger/internal/finance/interfaces"
	"github.com/sebuszqo/BudgetLedger/internal/logging"
	"github.com/sebuszqo/BudgetLedger/internal/metrics"
	"golang.org/x/sync/errgroup"
)

type Response struct {
	Message string `json:"message"`
}

type Server struct {
	router          *http.ServeMux
	categoryHandler *interfaces.CategoryHandler
	spendHandler    *interfaces.SpendHandler
	repo            domain.CategoryRepository
	dbService       *database.DBService
	respondError    func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewServer(
	categoryHandler *interfaces.CategoryHandler,
	spendHandler *interfaces.SpendHandler,
	repo domain.CategoryRepository,
	dbService *database.DBService,
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Server {
	return &Server{
		router:          http.NewServeMux(),
		categoryHandler: categoryHandler,
		spendHandler:    spendHandler,
		repo:            repo,
		dbService:       dbService,
		respondError:    respondError,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	interfaces.RespondJSON(w, http.StatusNotFound, Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.dbService != nil {
		health := s.dbService.Health(r.Context())
		if health["status"] != "up" {
			s.respondError(w, http.StatusServiceUnavailable, "Storage is not ready")
			return
		}
	} else if err := s.repo.Ping(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "Storage is not ready")
		return
	}
	interfaces.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	withCategoryName := func(h http.HandlerFunc) http.Handler {
		return interfaces.ValidatePathParamsMiddleware(s.respondError, h, "categoryName")
	}

	router := http.NewServeMux()
	router.Handle("POST /budget/addCategory", http.HandlerFunc(s.categoryHandler.AddCategory))
	router.Handle("POST /budget/recordSpend", http.HandlerFunc(s.spendHandler.RecordSpend))

	router.Handle("DELETE /budget/deleteCategory/{categoryName}", withCategoryName(s.categoryHandler.DeleteCategory))
	// no name segment at all
	router.Handle("DELETE /budget/deleteCategory/", withCategoryName(s.categoryHandler.DeleteCategory))

	router.Handle("GET /budget/getAllCategories", http.HandlerFunc(s.categoryHandler.GetAllCategories))
	router.Handle("GET /budget/getCategoryDetails/{categoryName}", withCategoryName(s.categoryHandler.GetCategoryDetails))
	router.Handle("GET /budget/getCategoryDetails/", withCategoryName(s.categoryHandler.GetCategoryDetails))

	router.Handle("GET /budget/ready", http.HandlerFunc(s.handleReady))
	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

func newStorage(cfg *config.Config) (domain.CategoryRepository, *database.DBService, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		dbService, err := database.NewPostgresService(cfg.DBConnectionString)
		if err != nil {
			return nil, nil, err
		}
		return infrastructure.NewCategoryRepository(dbService.DB), dbService, nil
	case config.BackendSQLite:
		dbService, err := database.NewSQLiteService(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return infrastructure.NewSQLiteCategoryRepository(dbService.DB), dbService, nil
	case config.BackendMemory:
		return infrastructure.NewMemoryCategoryRepository(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}

// reportingRespondError forwards 5xx responses to Sentry before writing them.
func reportingRespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	if status >= http.StatusInternalServerError {
		sentry.CaptureMessage(fmt.Sprintf("%d: %s", status, message))
	}
	interfaces.RespondError(w, status, message, errors...)
}

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Missing configuration, update to start server")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Error().Err(err).Msg("sentry initialization failed, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	repo, dbService, err := newStorage(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.DataBackend).Msg("Could not initialize storage")
	}
	if dbService != nil {
		defer dbService.Close()
	}

	appMetrics := metrics.New()
	publishers := application.MultiPublisher{appMetrics}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := infrastructure.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("AMQP unavailable, budget events will not be published")
		} else {
			defer amqpPublisher.Close()
			publishers = append(publishers, amqpPublisher)
		}
	}

	categoryService := application.NewCategoryService(repo, publishers, logger)
	ledgerService := application.NewLedgerService(repo, publishers, logger)

	categoryHandler := interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, reportingRespondError)
	spendHandler := interfaces.NewSpendHandler(ledgerService, interfaces.RespondJSON, reportingRespondError)

	server := NewServer(categoryHandler, spendHandler, repo, dbService, reportingRespondError)
	server.RegisterRoutes()

	var handler http.Handler = appMetrics.Middleware(server.router)
	handler = interfaces.UserMiddleware(cfg.DefaultUserID)(handler)
	handler = interfaces.CORSMiddleware(cfg.CORSAllowedOrigin)(handler)
	handler = logging.Middleware(logger)(handler)

	apiServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", appMetrics.Handler())
	metricsMux.Handle("/debug/pprof/", http.DefaultServeMux)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", apiServer.Addr).Str("backend", cfg.DataBackend).Msg("Server starting")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info().Str("addr", metricsServer.Addr).Msg("Starting metrics and pprof")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoSummary/internal/config"
	"todoSummary/internal/handlers"
	"todoSummary/internal/logger"
	"todoSummary/internal/notify"
	"todoSummary/internal/repository/todo/inmemory"
	"todoSummary/internal/repository/todo/postgres"
	"todoSummary/internal/repository/todo/sqlite"
	"todoSummary/internal/service"
	"todoSummary/internal/summary"
	"todoSummary/internal/worker"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     http.Handler
	repository service.TodoRepository
	todos      *service.TodoService
	summaries  *service.SummaryService
	worker     *worker.SummaryWorker
	shutdowns  []shutdownStep
}

type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

// Init wires storage, services and the HTTP stack. Nothing listens until Run.
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	repo, closeRepo, err := openRepository(ctx, a.config)
	if err != nil {
		return fmt.Errorf("initializing repository: %w", err)
	}
	a.repository = repo
	a.onShutdown("repository", func(context.Context) error {
		return closeRepo()
	})

	if a.config.OpenAI.APIKey == "" {
		logger.Warn("App: OPENAI_API_KEY is not set, summaries will fail with an authentication error")
	}
	if a.config.Slack.WebhookURL == "" {
		logger.Warn("App: SLACK_WEBHOOK_URL is not set, /summarize will answer 400")
	}

	summaryOptions := []service.SummaryOption{}
	if a.config.Summary.SingleFlight {
		summaryOptions = append(summaryOptions, service.WithSingleFlight())
	}

	a.todos = service.NewTodoService(repo)
	a.summaries = service.NewSummaryService(
		repo,
		summary.NewGenerator(summary.NewClient(a.config.OpenAI)),
		notify.NewSlack(a.config.Slack),
		summaryOptions...,
	)

	handler := handlers.NewTodoHandler(a.todos, a.summaries)
	a.router = NewRouter(handler, a.config.Server)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "todo-summary"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.config.Summary.Interval > 0 {
		a.worker = worker.NewSummaryWorker(a.summaries, a.config.Summary.Interval)
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr),
		zap.Bool("summary_single_flight", a.config.Summary.SingleFlight),
		zap.Duration("summary_interval", a.config.Summary.Interval))
	return nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Summaries() *service.SummaryService {
	return a.summaries
}

// Run serves HTTP until SIGINT/SIGTERM or a listener failure and returns the exit code.
func (a *App) Run(ctx context.Context) int {
	workerCtx, stopWorker := context.WithCancel(ctx)
	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("App: HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// one operation keeps the order: drain HTTP first, then release storage
	ops := map[string]gfshutdown.Operation{
		"todo-summary": func(ctx context.Context) error {
			stopWorker()
			err := a.server.Shutdown(ctx)
			a.Close(ctx)
			return err
		},
	}

	wait := gfshutdown.GracefulShutdown(ctx, a.config.Server.ShutdownTimeout, ops)

	select {
	case exitCode := <-wait:
		logger.Info("App: stopped", zap.Int("exit_code", exitCode))
		logger.Sync()
		return exitCode
	case err := <-serverErr:
		logger.Error("App: HTTP server failed", err)
		stopWorker()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		a.Close(shutdownCtx)
		return 1
	}
}

// Close releases everything Init acquired, in reverse order.
func (a *App) Close(ctx context.Context) {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		step := a.shutdowns[i]
		if err := step.fn(ctx); err != nil {
			logger.Error("App: shutdown step failed", err, zap.String("step", step.name))
		}
	}
	a.shutdowns = nil
	logger.Sync()
}

func (a *App) onShutdown(name string, fn func(context.Context) error) {
	a.shutdowns = append(a.shutdowns, shutdownStep{name: name, fn: fn})
}

func openRepository(ctx context.Context, cfg *config.Config) (service.TodoRepository, func() error, error) {
	switch cfg.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := storage.Migrate(); err != nil {
				storage.Close()
				return nil, nil, err
			}
		}
		return storage, func() error { storage.Close(); return nil }, nil

	case config.RepositorySQLite:
		storage, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage.Close, nil

	case config.RepositoryInMemory:
		logger.Warn("App: using in-memory repository, todos are lost on restart")
		return inmemory.NewTodoStorage(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}

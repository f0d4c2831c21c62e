package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/networkbrain/brain/internal/api/handlers"
	"github.com/networkbrain/brain/internal/api/middleware"
	"github.com/networkbrain/brain/internal/config"
	"github.com/networkbrain/brain/internal/gcal"
	"github.com/networkbrain/brain/internal/googleai"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
	"github.com/networkbrain/brain/internal/openai"
	"github.com/networkbrain/brain/internal/repository"
	"github.com/networkbrain/brain/internal/service"
	"github.com/networkbrain/brain/internal/workers"
	"github.com/networkbrain/brain/pkg/cache"
	"github.com/networkbrain/brain/pkg/proxycurl"
)

// App holds all server dependencies and coordinates startup and shutdown.
type App struct {
	cfg            *config.Config
	db             *pgxpool.Pool
	server         *http.Server
	river          *river.Client[pgx.Tx]
	message        *service.MessagePublisherManager
	meterProvider  *observability.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	metrics        *observability.Metrics
}

var errUnsupportedEmbeddingProvider = errors.New("unsupported embedding provider")

const riverQueueDepthInterval = 15 * time.Second

// setupMetrics creates the meter provider and domain metrics when metrics are enabled.
// When NewMeterProvider returns nil (unsupported or disabled exporter), returns (nil, nil, nil).
func setupMetrics(cfg *config.Config) (*observability.MeterProvider, *observability.Metrics, error) {
	mp, err := observability.NewMeterProvider(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create meter provider: %w", err)
	}

	if mp == nil {
		return nil, nil, nil
	}

	metrics, err := observability.NewMetrics(mp.Meter("network-brain"))
	if err != nil {
		err2 := observability.ShutdownMeterProvider(context.Background(), mp)
		if err2 != nil {
			slog.Error("shutdown meter provider after metrics error", "error", err2)
		}

		return nil, nil, fmt.Errorf("create metrics: %w", err)
	}

	return mp, metrics, nil
}

// newEmbeddingClient returns the configured embedding provider, or nil when embeddings are disabled.
func newEmbeddingClient(ctx context.Context, cfg *config.Config) (service.EmbeddingClient, error) {
	if !cfg.EmbeddingsEnabled() {
		slog.Warn("embeddings disabled (EMBEDDING_PROVIDER or its API key unset)")

		//nolint:nilnil // intentional: embeddings are optional
		return nil, nil
	}

	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderOpenAI:
		return openai.NewClient(cfg.EmbeddingProviderAPIKey,
			openai.WithModel(cfg.EmbeddingModel),
			openai.WithDimensions(cfg.EmbeddingDimensions),
			openai.WithOrganization(cfg.OpenAIOrgID),
		), nil
	case config.EmbeddingProviderGoogle:
		client, err := googleai.NewClient(ctx, cfg.EmbeddingProviderAPIKey,
			googleai.WithModel(cfg.EmbeddingModel),
			googleai.WithDimensions(cfg.EmbeddingDimensions),
		)
		if err != nil {
			return nil, fmt.Errorf("create google embedding client: %w", err)
		}

		return client, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEmbeddingProvider, cfg.EmbeddingProvider)
	}
}

// routes groups the handlers mounted by newHTTPServer.
type routes struct {
	health        *handlers.HealthHandler
	enrichment    *handlers.EnrichmentHandler
	introductions *handlers.IntroductionsHandler
	embeddings    *handlers.EmbeddingsHandler
	timeline      *handlers.TimelineHandler
	applications  *handlers.ApplicationsHandler
	calendar      *handlers.CalendarHandler
	prompts       *handlers.SystemPromptsHandler
	people        *handlers.PeopleHandler
	clientConfig  *handlers.ClientConfigHandler
	metrics       http.Handler
}

// NewApp builds and wires all components. It does not start the HTTP server or River;
// call Run to start and block until shutdown or failure.
func NewApp(cfg *config.Config, db *pgxpool.Pool) (*App, error) {
	var (
		err           error
		meterProvider *observability.MeterProvider
		metrics       *observability.Metrics
	)

	if cfg.MetricsExporter == "" {
		slog.Warn("metrics not enabled (OTEL_METRICS_EXPORTER empty or unset)")
	} else {
		meterProvider, metrics, err = setupMetrics(cfg)
		if err != nil {
			return nil, err
		}
	}

	var (
		eventMetrics        observability.EventMetrics
		embeddingMetrics    observability.EmbeddingMetrics
		enrichmentMetrics   observability.EnrichmentMetrics
		introductionMetrics observability.IntroductionMetrics
		applicationMetrics  observability.ApplicationMetrics
		cacheMetrics        observability.CacheMetrics
		apiMetrics          observability.APIMetrics
	)
	if metrics != nil {
		eventMetrics = metrics.Events
		embeddingMetrics = metrics.Embeddings
		enrichmentMetrics = metrics.Enrichment
		introductionMetrics = metrics.Introductions
		applicationMetrics = metrics.Applications
		cacheMetrics = metrics.Cache
		apiMetrics = metrics.API
	}

	var tracerProvider *sdktrace.TracerProvider

	if cfg.TracesExporter == "" {
		slog.Warn("tracing not enabled (OTEL_TRACES_EXPORTER empty or unset)")
	} else {
		tracerProvider, err = observability.NewTracerProvider(cfg)
		if err != nil {
			if err2 := observability.ShutdownMeterProvider(context.Background(), meterProvider); err2 != nil {
				slog.Error("shutdown meter provider after tracer provider error", "error", err2)
			}

			return nil, fmt.Errorf("create tracer provider: %w", err)
		}
	}

	// Install TraceContextHandler unconditionally so request_id (and trace_id/span_id when tracing is on) appear in logs.
	defaultHandler := slog.Default().Handler()
	slog.SetDefault(slog.New(observability.NewTraceContextHandler(defaultHandler)))

	if tracerProvider != nil {
		otel.SetTracerProvider(tracerProvider)
	}

	if meterProvider != nil {
		otel.SetMeterProvider(meterProvider)
	}

	fail := func(err error) (*App, error) {
		if obsErr := shutdownObservability(context.Background(), tracerProvider, meterProvider); obsErr != nil {
			slog.Error("shutdown observability after startup error", "error", obsErr)
		}

		return nil, err
	}

	embeddingClient, err := newEmbeddingClient(context.Background(), cfg)
	if err != nil {
		return fail(err)
	}

	peopleRepo := repository.NewPeopleRepository(db)
	notesRepo := repository.NewNotesRepository(db)
	eventsRepo := repository.NewEventsRepository(db)
	introductionsRepo := repository.NewIntroductionsRepository(db)
	communitiesRepo := repository.NewCommunitiesRepository(db)
	promptsRepo := repository.NewSystemPromptsRepository(db)
	connectionsRepo := repository.NewCalendarConnectionsRepository(db)

	messageManager := service.NewMessagePublisherManager(eventMetrics)

	embeddingService := service.NewEmbeddingService(peopleRepo, embeddingClient,
		service.WithBatchConcurrency(cfg.EmbeddingBatchConcurrency),
		service.WithRateLimit(cfg.EmbeddingRateLimit),
		service.WithEmbeddingMetrics(embeddingMetrics),
	)

	// River runs only with an embedding provider; without one there is nothing to enqueue.
	var riverClient *river.Client[pgx.Tx]

	if embeddingClient != nil {
		riverWorkers := river.NewWorkers()
		river.AddWorker(riverWorkers, workers.NewPersonEmbeddingWorker(embeddingService, embeddingMetrics))

		riverClient, err = river.NewClient(riverpgxv5.New(db), &river.Config{
			Queues: map[string]river.QueueConfig{
				service.EmbeddingsQueueName: {MaxWorkers: cfg.EmbeddingMaxConcurrent},
			},
			Workers:      riverWorkers,
			ErrorHandler: workers.NewErrorHandler(embeddingMetrics),
		})
		if err != nil {
			messageManager.Shutdown()

			return fail(fmt.Errorf("create River client: %w", err))
		}

		messageManager.RegisterProvider(service.NewEmbeddingProvider(
			riverClient, true, cfg.EmbeddingMaxAttempts, embeddingMetrics,
		))
	}

	promptCache := cache.NewLoaderCache[string, *models.SystemPrompt](
		cfg.PromptCacheSize, cfg.PromptCacheTTL, func(key string) string { return key },
	)
	promptsService := service.NewPromptsService(promptsRepo, promptCache, cacheMetrics)
	timelineService := service.NewTimelineService(peopleRepo, notesRepo, eventsRepo)

	var chat service.ChatClient
	if cfg.OpenAIAPIKey != "" {
		chat = openai.NewClient(cfg.OpenAIAPIKey,
			openai.WithChatModel(cfg.OpenAIChatModel),
			openai.WithOrganization(cfg.OpenAIOrgID),
		)
	} else {
		slog.Warn("enrichment LLM disabled (OPENAI_API_KEY unset)")
	}

	var lookup service.ProfileLookup
	if cfg.ProxycurlAPIKey != "" {
		lookup = proxycurl.NewClientWithOptions(proxycurl.ClientOptions{
			BaseURL: cfg.ProxycurlBaseURL,
			APIKey:  cfg.ProxycurlAPIKey,
		})
	}

	enrichmentService := service.NewEnrichmentService(service.EnrichmentDeps{
		People:    peopleRepo,
		Notes:     notesRepo,
		Prompts:   promptsService,
		Timeline:  timelineService,
		Lookup:    lookup,
		Chat:      chat,
		Publisher: messageManager,
		Metrics:   enrichmentMetrics,
	})

	applicationsService, err := service.NewApplicationsService(
		peopleRepo, communitiesRepo, messageManager,
		cfg.WebhookSigningSecret, cfg.DefaultCommunitySlug, applicationMetrics,
	)
	if err != nil {
		messageManager.Shutdown()

		return fail(err)
	}

	var (
		calendarAPI   service.CalendarAPI
		calendarState service.OAuthState
	)
	if cfg.CalendarEnabled() {
		calendarAPI = gcal.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
		calendarState = gcal.NewStateSigner(cfg.GoogleClientSecret)
	}

	r := routes{
		health:        handlers.NewHealthHandler(db),
		enrichment:    handlers.NewEnrichmentHandler(enrichmentService),
		introductions: handlers.NewIntroductionsHandler(service.NewIntroductionsService(peopleRepo, introductionsRepo, introductionMetrics)),
		embeddings:    handlers.NewEmbeddingsHandler(embeddingService),
		timeline:      handlers.NewTimelineHandler(timelineService),
		applications:  handlers.NewApplicationsHandler(applicationsService),
		calendar:      handlers.NewCalendarHandler(service.NewCalendarService(calendarAPI, calendarState, connectionsRepo, eventsRepo)),
		prompts:       handlers.NewSystemPromptsHandler(promptsService),
		people:        handlers.NewPeopleHandler(service.NewPeopleService(peopleRepo, notesRepo, messageManager)),
		clientConfig: handlers.NewClientConfigHandler(models.ClientConfigResponse{
			PublicBaseURL: cfg.PublicBaseURL,
			MapsAPIKey:    cfg.GoogleMapsAPIKey,
		}),
	}
	if meterProvider != nil {
		r.metrics = meterProvider.Handler
	}

	server := newHTTPServer(cfg, r, apiMetrics, meterProvider, tracerProvider)

	return &App{
		cfg:            cfg,
		db:             db,
		server:         server,
		river:          riverClient,
		message:        messageManager,
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		metrics:        metrics,
	}, nil
}

// newHTTPServer builds the chi router (public routes, API key on /v1) and the server.
// Handler chain: RequestID -> otelhttp(Logging(router)) so access logs get trace_id/span_id from context.
func newHTTPServer(
	cfg *config.Config,
	h routes,
	apiMetrics observability.APIMetrics,
	meterProvider *observability.MeterProvider,
	tracerProvider *sdktrace.TracerProvider,
) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Metrics(apiMetrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.MaxBody(cfg.MaxRequestBodyBytes, apiMetrics))

	router.Get("/health", h.health.Check)

	// Only the Prometheus exporter serves a pull endpoint.
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics)
	}

	router.Post("/webhooks/applications", h.applications.Receive)
	router.Get("/calendar/oauth/callback", h.calendar.Callback)

	router.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.Auth(cfg.APIKey))

		v1.Post("/enrichment", h.enrichment.Enrich)

		v1.Post("/introductions/generate", h.introductions.Generate)
		v1.Get("/introductions", h.introductions.List)
		v1.Patch("/introductions/{id}", h.introductions.Update)

		v1.Post("/embeddings", h.embeddings.Generate)
		v1.Get("/embeddings", h.embeddings.Batch)

		v1.Get("/timeline", h.timeline.Get)

		v1.Get("/calendar/auth-url", h.calendar.AuthURL)
		v1.Post("/calendar/sync", h.calendar.Sync)

		v1.Get("/system-prompts", h.prompts.List)
		v1.Get("/system-prompts/{key}", h.prompts.Get)
		v1.Put("/system-prompts/{key}", h.prompts.Put)

		v1.Get("/people/{id}", h.people.Get)
		v1.Delete("/people/{id}", h.people.Delete)
		v1.Post("/people/{id}/notes", h.people.AddNote)

		v1.Get("/client-config", h.clientConfig.Get)
	})

	otelOpts := []otelhttp.Option{
		// Skip tracing and HTTP metrics for health checks and scrapes to reduce noise.
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
	}
	if meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(meterProvider))
	}

	if tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(tracerProvider))
	}

	// Logging runs inside otelhttp so r.Context() has the span when we log (trace_id/span_id in access logs).
	inner := middleware.Logging(router)
	handler := otelhttp.NewHandler(inner, "brain-api", otelOpts...)
	handler = middleware.RequestID(handler)

	const (
		readTimeout = 15 * time.Second
		// Enrichment waits on the LLM and optionally Proxycurl.
		writeTimeout = 90 * time.Second
		idleTimeout  = 60 * time.Second
	)

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// Run starts the HTTP server and River, then blocks until ctx is cancelled (e.g. signal)
// or a component fails. When ctx is cancelled or a component fails, it cancels the internal
// River context so River and the queue depth poller stop before Run returns. Caller should then call Shutdown.
func (a *App) Run(ctx context.Context) error {
	runErr := make(chan error, 1)

	riverCtx, cancelRiver := context.WithCancel(ctx)
	defer cancelRiver()

	if a.river != nil {
		if a.metrics != nil && a.metrics.Events != nil {
			go runRiverQueueDepthPoller(riverCtx, a.db, a.metrics.Events)
		}

		go func() {
			if err := a.river.Start(riverCtx); err != nil && !errors.Is(err, context.Canceled) {
				select {
				case runErr <- fmt.Errorf("river: %w", err):
				default:
				}
			}
		}()
	}

	go func() {
		slog.Info("Starting server", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case runErr <- fmt.Errorf("server: %w", err):
			default:
			}
		}
	}()

	select {
	case err := <-runErr:
		cancelRiver()

		return err
	case <-ctx.Done():
		cancelRiver()

		return nil
	}
}

// runRiverQueueDepthPoller periodically updates the embeddings queue depth gauge.
func runRiverQueueDepthPoller(ctx context.Context, db *pgxpool.Pool, eventMetrics observability.EventMetrics) {
	ticker := time.NewTicker(riverQueueDepthInterval)
	defer ticker.Stop()

	update := func() {
		var count int

		err := db.QueryRow(ctx,
			`SELECT COUNT(*) FROM river_job WHERE queue = $1 AND state IN ($2, $3, $4)`,
			service.EmbeddingsQueueName,
			rivertype.JobStateAvailable, rivertype.JobStateRetryable, rivertype.JobStateScheduled,
		).Scan(&count)
		if err != nil {
			slog.WarnContext(ctx, "river queue depth poll failed", "error", err)

			return
		}

		eventMetrics.SetEmbeddingQueueDepth(count)
	}

	update()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}

// shutdownObservability shuts down tracer and meter providers. Logs secondary errors, returns the first.
func shutdownObservability(ctx context.Context, tracer *sdktrace.TracerProvider, meter *observability.MeterProvider) error {
	var first error

	if tracer != nil {
		if err := observability.ShutdownTracerProvider(ctx, tracer); err != nil {
			first = err
		}
	}

	if err := observability.ShutdownMeterProvider(ctx, meter); err != nil {
		if first == nil {
			first = err
		} else {
			slog.Error("shutdown meter provider", "error", err)
		}
	}

	return first
}

// Shutdown stops the server, message publisher, and River in order. Call after Run returns.
// Observability is shut down once via defer; its error is returned only when server and River shut down successfully.
func (a *App) Shutdown(ctx context.Context) (err error) {
	defer a.message.Shutdown()

	defer func() {
		obsErr := shutdownObservability(ctx, a.tracerProvider, a.meterProvider)
		if err == nil {
			err = obsErr
		} else if obsErr != nil {
			slog.Error("shutdown observability", "error", obsErr)
		}
	}()

	if err = a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.stopRiver(ctx)

		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.river == nil {
		return nil
	}

	if err = a.river.Stop(ctx); err != nil {
		return fmt.Errorf("river stop: %w", err)
	}

	return nil
}

func (a *App) stopRiver(ctx context.Context) {
	if a.river == nil {
		return
	}

	if err := a.river.Stop(ctx); err != nil {
		slog.Error("river stop during server shutdown", "error", err)
	}
}

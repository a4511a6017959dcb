package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	app "devdash-backend/application/ideamap"
	"devdash-backend/application/ports"
	"devdash-backend/application/services"
	"devdash-backend/infrastructure/config"
	"devdash-backend/infrastructure/logging"
	"devdash-backend/infrastructure/messaging"
	"devdash-backend/infrastructure/messaging/eventbridge"
	"devdash-backend/infrastructure/observability"
	"devdash-backend/infrastructure/persistence/dynamodb"
	"devdash-backend/infrastructure/persistence/memory"
	"devdash-backend/infrastructure/persistence/resilience"
	"devdash-backend/infrastructure/persistence/s3"
	"devdash-backend/infrastructure/persistence/sqlstore"
	"devdash-backend/infrastructure/persistence/supabase"
	"devdash-backend/infrastructure/persistence/tracing"
	"devdash-backend/interfaces/http/rest"
	"devdash-backend/interfaces/http/rest/handlers"
	"devdash-backend/interfaces/http/rest/middleware"
	"devdash-backend/pkg/auth"
)

// ProvideLogger builds the process logger from cfg.
func ProvideLogger(cfg *config.Config) (*logging.Logger, func()) {
	l := logging.New(cfg)
	return l, func() { _ = l.Sync() }
}

func ProvideZapLogger(l *logging.Logger) *zap.Logger {
	return l.Logger
}

// ProvideAWSConfig loads the default credential chain for the configured
// region. Nothing is contacted until a client makes a call.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
}

func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.Features.EnableTracing {
		return observability.DisabledTracing(), func() {}, nil
	}
	tp, err := observability.InitTracing(ctx, cfg.Tracing.ServiceName, string(cfg.Environment), cfg.Tracing.Endpoint, cfg.Tracing.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

func ProvideCollector() *observability.Collector {
	return observability.NewCollector("devdash")
}

// Stores are the raw backends picked by the store driver. DynamoDB and S3
// only hold the idea map; snippets and notes stay in memory for them.
type Stores struct {
	Driver   string
	IdeaMap  ports.IdeaMapStore
	Snippets ports.SnippetRepository
	Notes    ports.NoteRepository
}

// ProvideStores opens the backend named by cfg.Store.Driver.
func ProvideStores(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Stores, func(), error) {
	sc := cfg.Store
	stores := &Stores{
		Driver:   sc.Driver,
		Snippets: memory.NewSnippetRepository(),
		Notes:    memory.NewNoteRepository(),
	}
	noop := func() {}

	switch sc.Driver {
	case config.DriverMemory:
		stores.IdeaMap = memory.NewIdeaMapStore()

	case config.DriverSupabase:
		client, err := supabase.NewClient(sc.Supabase.URL, sc.Supabase.Key)
		if err != nil {
			return nil, nil, err
		}
		stores.IdeaMap = supabase.NewIdeaMapStore(client, sc.Supabase.IdeaMapTable, logger)
		stores.Snippets = supabase.NewSnippetRepository(client, sc.Supabase.SnippetTable)
		stores.Notes = supabase.NewNoteRepository(client, sc.Supabase.NoteTable)

	case config.DriverPostgres, config.DriverSQLite:
		dialect, dsn := sqlstore.Postgres, sc.DatabaseURL
		if sc.Driver == config.DriverSQLite {
			dialect, dsn = sqlstore.SQLite, sc.SQLitePath
		}
		openCtx, cancel := context.WithTimeout(ctx, sc.Timeout)
		defer cancel()
		db, err := sqlstore.Open(openCtx, dialect, dsn, logger)
		if err != nil {
			return nil, nil, err
		}
		stores.IdeaMap = db.IdeaMaps()
		stores.Snippets = db.Snippets()
		stores.Notes = db.Notes()
		return stores, func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close sql store", zap.Error(err))
			}
		}, nil

	case config.DriverDynamoDB:
		client := dynamodb.NewClient(awsCfg, sc.DynamoDB.Endpoint)
		stores.IdeaMap = dynamodb.NewIdeaMapStore(client, sc.DynamoDB.Table, logger)

	case config.DriverS3:
		client := s3.NewClient(awsCfg, sc.S3.Endpoint, sc.S3.PathStyle)
		stores.IdeaMap = s3.NewIdeaMapStore(client, sc.S3.Bucket, sc.S3.Key, logger)

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
	return stores, noop, nil
}

// ProvideBreaker returns nil when the circuit breaker is switched off.
func ProvideBreaker(cfg *config.Config, logger *zap.Logger) *resilience.Breaker {
	if !cfg.Features.EnableCircuitBreaker {
		return nil
	}
	bc := cfg.Store.Breaker
	return resilience.NewBreaker(resilience.Settings{
		Name:             "store-" + cfg.Store.Driver,
		MaxRequests:      bc.MaxRequests,
		Interval:         bc.Interval,
		Timeout:          bc.Timeout,
		FailureThreshold: bc.FailureThreshold,
		MinRequests:      bc.MinRequests,
	}, logger)
}

// storeObserver feeds store timings into the collector only when metrics
// are on.
func storeObserver(cfg *config.Config, c *observability.Collector) tracing.Observer {
	if !cfg.Features.EnableMetrics {
		return nil
	}
	return c
}

// ProvideIdeaMapStore decorates the raw store: spans and timings inside,
// the breaker outside.
func ProvideIdeaMapStore(cfg *config.Config, s *Stores, tp *observability.TracerProvider, c *observability.Collector, b *resilience.Breaker) ports.IdeaMapStore {
	var store ports.IdeaMapStore = tracing.NewIdeaMapStore(s.IdeaMap, tp.Tracer(), storeObserver(cfg, c), s.Driver)
	if b != nil {
		store = resilience.NewIdeaMapStore(store, b)
	}
	return store
}

func ProvideSnippetRepository(cfg *config.Config, s *Stores, tp *observability.TracerProvider, c *observability.Collector, b *resilience.Breaker) ports.SnippetRepository {
	var repo ports.SnippetRepository = tracing.NewSnippetRepository(s.Snippets, tp.Tracer(), storeObserver(cfg, c), s.Driver)
	if b != nil {
		repo = resilience.NewSnippetRepository(repo, b)
	}
	return repo
}

func ProvideNoteRepository(cfg *config.Config, s *Stores, tp *observability.TracerProvider, c *observability.Collector, b *resilience.Breaker) ports.NoteRepository {
	var repo ports.NoteRepository = tracing.NewNoteRepository(s.Notes, tp.Tracer(), storeObserver(cfg, c), s.Driver)
	if b != nil {
		repo = resilience.NewNoteRepository(repo, b)
	}
	return repo
}

// ProvideEventPublisher sends events to EventBridge in the background when
// events are enabled, and only logs them otherwise.
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (ports.EventPublisher, func()) {
	if !cfg.Features.EnableEvents {
		return messaging.NewLogPublisher(logger), func() {}
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	async := messaging.NewAsyncPublisher(
		eventbridge.NewPublisher(client, cfg.Events.BusName, cfg.Events.Source, logger),
		256, 2*time.Second, logger)
	return async, async.Close
}

// ProvideVerifier returns a nil Verifier when auth is off, which lets every
// request through anonymously.
func ProvideVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.Auth.Verifier {
	case config.VerifierJWT:
		return auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	case config.VerifierSupabase:
		client, err := supabase.NewClient(cfg.Store.Supabase.URL, cfg.Store.Supabase.Key)
		if err != nil {
			return nil, err
		}
		return auth.NewSupabaseVerifier(client), nil
	}
	return nil, nil
}

func ProvideRegistry(cfg *config.Config, store ports.IdeaMapStore, publisher ports.EventPublisher, logger *zap.Logger) (*app.Registry, func()) {
	r := app.NewRegistry(store, publisher, logger, app.RegistryConfig{
		IdleTimeout: cfg.Editor.IdleTimeout,
		MaxSessions: cfg.Editor.MaxSessions,
	}, app.WithNoticeTTL(cfg.Editor.NoticeTTL))
	return r, r.CloseAll
}

func ProvideSnippetService(repo ports.SnippetRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.SnippetService {
	return services.NewSnippetService(repo, publisher, logger)
}

func ProvideNoteService(cfg *config.Config, repo ports.NoteRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.NoteService {
	return services.NewNoteService(repo, publisher, logger, cfg.PublicBaseURL)
}

func ProvideDashboardService(snippets ports.SnippetRepository, notes ports.NoteRepository, store ports.IdeaMapStore, logger *zap.Logger) *services.DashboardService {
	return services.NewDashboardService(snippets, notes, store, logger)
}

func ProvideIdeaMapHandler(cfg *config.Config, registry *app.Registry, c *observability.Collector, logger *zap.Logger) *handlers.IdeaMapHandler {
	var observer handlers.SessionObserver
	if cfg.Features.EnableMetrics {
		observer = c
	}
	return handlers.NewIdeaMapHandler(registry, observer, logger)
}

func ProvideOrigins(cfg *config.Config) *middleware.Origins {
	return middleware.NewOrigins(cfg.CORS.AllowedOrigins)
}

func ProvideRouterOptions(cfg *config.Config, c *observability.Collector) rest.RouterOptions {
	var opts rest.RouterOptions
	if cfg.Features.EnableRateLimit {
		opts.Limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	if cfg.Features.EnableMetrics {
		opts.Observer = c
		opts.MetricsHandler = c.Handler()
	}
	return opts
}

func ProvideHTTPHandler(r *rest.Router) http.Handler {
	return r.Setup()
}

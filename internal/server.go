package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitledger/internal/catalog"
	"github.com/2beens/fitledger/internal/config"
	"github.com/2beens/fitledger/internal/db"
	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/middleware"
	"github.com/2beens/fitledger/internal/nutrition"
	"github.com/2beens/fitledger/internal/progression"
	"github.com/2beens/fitledger/internal/storage"
	"github.com/2beens/fitledger/internal/telemetry/metrics"
	"github.com/2beens/fitledger/internal/telemetry/tracing"
	"github.com/2beens/fitledger/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	appSecret         string // shared with the companion app
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	flusher     *storage.Flusher

	engine *progression.Engine
	ledger *nutrition.Ledger

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	AppSecret               string
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		appSecret:   params.AppSecret,
		versionInfo: params.VersionInfo,
	}

	var collectors []prometheus.Collector
	if cfg.StorageBackend == config.StoragePostgres || cfg.FoodsFromDB {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		s.dbPool = dbPool
		collectors = append(collectors, db.NewPoolCollector(dbPool, cfg.PostgresDBName))
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("fitledger", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.StorageBackend == config.StorageRedis || cfg.RateLimitPerMinute > 0 {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitledger", s.redisClient)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	programs, err := catalog.LoadFile(cfg.ProgramsPath)
	if err != nil {
		return nil, fmt.Errorf("load programs catalog: %w", err)
	}
	log.Debugf("loaded %d programs from [%s]", programs.Len(), cfg.ProgramsPath)

	var foodProvider foods.Provider
	if cfg.FoodsFromDB {
		foodProvider = foods.NewRepo(s.dbPool)
	} else {
		foodTable, err := foods.LoadTable(cfg.FoodsPath)
		if err != nil {
			return nil, fmt.Errorf("load foods table: %w", err)
		}
		foodProvider = foodTable
	}

	var store storage.Store
	switch cfg.StorageBackend {
	case config.StorageRedis:
		store = storage.NewRedisStore(s.redisClient)
	case config.StoragePostgres:
		store = storage.NewPostgresStore(s.dbPool)
	default:
		log.Warnln("using in-memory storage, state is lost on restart")
		store = storage.NewMemoryStore()
	}
	s.flusher = storage.NewFlusher(store, s.metricsManager)

	s.engine = progression.NewEngine(progression.EngineParams{
		Catalog:        programs,
		Persister:      s.flusher,
		MetricsManager: s.metricsManager,
	})
	s.ledger = nutrition.NewLedger(nutrition.LedgerParams{
		Foods:          foods.NewCachedProvider(
			foodProvider,
			cfg.FoodCacheSize,
			time.Duration(cfg.FoodCacheTTLSeconds)*time.Second,
			s.metricsManager,
		),
		Persister:      s.flusher,
		MetricsManager: s.metricsManager,
	})

	if err := s.restoreState(ctx, store); err != nil {
		if closeErr := s.flusher.Close(ctx); closeErr != nil {
			log.Errorf("close flusher: %s", closeErr)
		}
		return nil, err
	}

	return s, nil
}

// restoreState loads both components and derives nutrition goals from the
// stored profile, unless the goals were already customized.
func (s *Server) restoreState(ctx context.Context, store storage.Store) error {
	if err := s.engine.Restore(ctx, store); err != nil {
		return fmt.Errorf("restore progression: %w", err)
	}
	if err := s.ledger.Restore(ctx, store); err != nil {
		return fmt.Errorf("restore nutrition: %w", err)
	}

	profile, ok := s.engine.UserProfile()
	if !ok || s.ledger.Goals() != nutrition.DefaultGoals {
		return nil
	}

	if _, err := s.ledger.InitializeGoals(ctx, profile); err != nil {
		if errors.Is(err, nutrition.ErrIncompleteProfile) {
			log.Debugf("nutrition goals not initialized: %s", err)
			return nil
		}
		return fmt.Errorf("initialize nutrition goals: %w", err)
	}
	return nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitledger-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")

	progressionHandler := progression.NewHandler(s.engine, pkg.UUIDGenerator{})
	r.HandleFunc("/programs", progressionHandler.HandleListPrograms).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/progression", progressionHandler.HandleGetProgression).Methods("GET", "OPTIONS").Name("get-progression")
	r.HandleFunc("/progression", progressionHandler.HandleResetProgress).Methods("DELETE", "OPTIONS").Name("reset-progression")
	r.HandleFunc("/progression/snapshot", progressionHandler.HandleSnapshot).Methods("GET", "OPTIONS").Name("progression-snapshot")
	r.HandleFunc("/progression/active/{programId}", progressionHandler.HandleSetActiveProgram).Methods("POST", "OPTIONS").Name("set-active-program")
	r.HandleFunc("/progression/start/{programId}", progressionHandler.HandleStartProgram).Methods("POST", "OPTIONS").Name("start-program")
	r.HandleFunc("/progression/workouts/{workoutId}/complete", progressionHandler.HandleCompleteWorkout).Methods("POST", "OPTIONS").Name("complete-workout")
	r.HandleFunc("/progression/weeks/unlock-next", progressionHandler.HandleUnlockNextWeek).Methods("POST", "OPTIONS").Name("unlock-next-week")
	r.HandleFunc("/progression/profile", progressionHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/progression/weight", progressionHandler.HandleLogWeight).Methods("POST", "OPTIONS").Name("log-weight")
	r.HandleFunc("/progression/exercises/{exerciseId}/history", progressionHandler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")
	r.HandleFunc("/progression/exercises/{exerciseId}/sets", progressionHandler.HandleLogExerciseSet).Methods("POST", "OPTIONS").Name("log-exercise-set")
	r.HandleFunc("/progression/exercises/{exerciseId}/sets/{setId}", progressionHandler.HandleUpdateExerciseSet).Methods("PUT", "OPTIONS").Name("update-exercise-set")

	nutritionHandler := nutrition.NewHandler(s.ledger, s.engine)
	r.HandleFunc("/nutrition/logs", nutritionHandler.HandleListDates).Methods("GET", "OPTIONS").Name("list-log-dates")
	r.HandleFunc("/nutrition/logs/{date}", nutritionHandler.HandleGetDailyLog).Methods("GET", "OPTIONS").Name("get-daily-log")
	r.HandleFunc("/nutrition/logs/{date}", nutritionHandler.HandleClearDailyLog).Methods("DELETE", "OPTIONS").Name("clear-daily-log")
	r.HandleFunc("/nutrition/logs/{date}/entries", nutritionHandler.HandleLogFood).Methods("POST", "OPTIONS").Name("log-food")
	r.HandleFunc("/nutrition/logs/{date}/entries/{entryId}", nutritionHandler.HandleRemoveFoodEntry).Methods("DELETE", "OPTIONS").Name("remove-food-entry")
	r.HandleFunc("/nutrition/logs/{date}/meals/{mealId}", nutritionHandler.HandleAddCustomMealToLog).Methods("POST", "OPTIONS").Name("log-custom-meal")
	r.HandleFunc("/nutrition/goals", nutritionHandler.HandleGetGoals).Methods("GET", "OPTIONS").Name("get-goals")
	r.HandleFunc("/nutrition/goals", nutritionHandler.HandleUpdateGoals).Methods("PUT", "OPTIONS").Name("update-goals")
	r.HandleFunc("/nutrition/goals/init", nutritionHandler.HandleInitializeGoals).Methods("POST", "OPTIONS").Name("init-goals")
	r.HandleFunc("/nutrition/preferences", nutritionHandler.HandleGetPreferences).Methods("GET", "OPTIONS").Name("get-preferences")
	r.HandleFunc("/nutrition/preferences", nutritionHandler.HandleUpdatePreferences).Methods("PUT", "OPTIONS").Name("update-preferences")
	r.HandleFunc("/nutrition/recent", nutritionHandler.HandleRecentFoods).Methods("GET", "OPTIONS").Name("recent-foods")
	r.HandleFunc("/nutrition/meals", nutritionHandler.HandleListCustomMeals).Methods("GET", "OPTIONS").Name("list-custom-meals")
	r.HandleFunc("/nutrition/meals", nutritionHandler.HandleAddCustomMeal).Methods("POST", "OPTIONS").Name("add-custom-meal")
	r.HandleFunc("/nutrition/meals/{mealId}", nutritionHandler.HandleUpdateCustomMeal).Methods("PUT", "OPTIONS").Name("update-custom-meal")
	r.HandleFunc("/nutrition/meals/{mealId}", nutritionHandler.HandleRemoveCustomMeal).Methods("DELETE", "OPTIONS").Name("remove-custom-meal")

	var rateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.appSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.RateLimit(rateLimiter, "api", s.config.RateLimitPerMinute, s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	msg := "fitledger ok"
	if s.versionInfo != "" {
		msg += " [" + s.versionInfo + "]"
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, msg, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PromMetricsHost, s.config.PromMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking writes before the last flush
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if err := s.flusher.Close(ctx); err != nil {
		log.Errorf("flush pending state: %s", err)
	} else {
		log.Debugln("pending state flushed")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

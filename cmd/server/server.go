// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/api"
	"github.com/codr1/vistos/internal/api/booking"
	core "github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/config"
	"github.com/codr1/vistos/internal/db"
	"github.com/codr1/vistos/internal/drafts"
	"github.com/codr1/vistos/internal/email"
	"github.com/codr1/vistos/internal/metrics"
	"github.com/codr1/vistos/internal/ratelimit"
	"github.com/codr1/vistos/internal/scheduler"
	"github.com/codr1/vistos/internal/wizard"
)

// newServer wires the booking stack from cfg. The returned cleanup releases
// the draft store and scheduler; it is safe to call more than once.
func newServer(ctx context.Context, cfg *config.Config) (*http.Server, func(), error) {
	var closers []func()
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		})
	}

	store, closeStore, err := newDraftStore(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStore)

	availability := cfg.BookingAvailability()
	slots, err := cfg.BookingTimeSlots()
	if err != nil {
		cleanup()
		return nil, cleanup, fmt.Errorf("build time slots: %w", err)
	}
	validator, err := core.NewValidator(availability, slots)
	if err != nil {
		cleanup()
		return nil, cleanup, fmt.Errorf("build validator: %w", err)
	}

	var opts []wizard.Option
	var registry *prometheus.Registry
	var httpMetrics *metrics.HTTPMetrics
	if cfg.Features.EnableMetrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, wizard.WithMetrics(metrics.NewWizardMetrics(registry)))
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}
	coordinator := wizard.NewCoordinator(store, availability, slots, validator, opts...)

	limiter := ratelimit.New(&ratelimit.Config{
		Cooldown:        cfg.Submissions.Cooldown,
		MaxPerHour:      cfg.Submissions.MaxPerHour,
		MaxPerIPPerHour: cfg.Submissions.MaxPerIPPerHour,
	})

	jobs, err := scheduler.New()
	if err != nil {
		cleanup()
		return nil, cleanup, err
	}
	closers = append(closers, func() {
		if err := jobs.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
	})
	if err := jobs.RegisterDraftPurgeJob(store, cfg.Drafts.TTL, cfg.Drafts.PurgeCron); err != nil {
		cleanup()
		return nil, cleanup, fmt.Errorf("register draft purge job: %w", err)
	}
	if err := jobs.RegisterLimiterPruneJob(limiter, scheduler.LimiterPruneCron); err != nil {
		cleanup()
		return nil, cleanup, fmt.Errorf("register limiter prune job: %w", err)
	}
	jobs.Start()
	// Drafts left over from a previous run are purged immediately.
	if err := jobs.RunNow(scheduler.DraftPurgeJob); err != nil {
		log.Warn().Err(err).Msg("Failed to trigger startup draft purge")
	}

	var sender email.EmailSender
	if cfg.Email.Enabled() {
		ses, err := email.NewSESClient(ctx, cfg.Email)
		if err != nil {
			cleanup()
			return nil, cleanup, fmt.Errorf("create SES client: %w", err)
		}
		sender = ses
	} else {
		log.Warn().Msg("SES credentials not configured, booking emails disabled")
	}

	theme := cfg.Theme
	booking.InitHandlers(booking.Deps{
		Coordinator:   coordinator,
		Limiter:       limiter,
		EmailSender:   sender,
		Theme:         &theme,
		PaymentURL:    cfg.Payment.RedirectURL,
		TrustProxy:    cfg.App.TrustProxy,
		SecureCookies: cfg.App.Environment == "production",
		SessionTTL:    cfg.Drafts.TTL,
	})

	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithHTTPMetrics(httpMetrics),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	registerRoutes(router, cfg, registry)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, cleanup, nil
}

func newDraftStore(ctx context.Context, cfg *config.Config) (drafts.Store, func(), error) {
	switch cfg.Database.Driver {
	case "sqlite":
		database, err := db.NewFromConfig(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		log.Info().Str("filename", cfg.Database.Filename).Msg("Using SQLite draft store")
		return drafts.NewSQLStore(database), func() {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close database")
			}
		}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Database.RedisAddr,
			Password: cfg.Database.RedisPassword,
			DB:       cfg.Database.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Database.RedisAddr, err)
		}
		log.Info().Str("addr", cfg.Database.RedisAddr).Msg("Using Redis draft store")
		return drafts.NewRedisStore(client, cfg.Drafts.TTL), func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		}, nil
	default:
		log.Info().Msg("Using in-memory draft store")
		return drafts.NewMemoryStore(), func() {}, nil
	}
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, registry *prometheus.Registry) {
	mux.HandleFunc("/", booking.HandleIndex)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Booking wizard
	mux.HandleFunc("GET /booking", booking.HandleBookingPage)
	mux.HandleFunc("GET /api/v1/booking/state", booking.HandleState)
	mux.HandleFunc("POST /api/v1/booking/field", booking.HandleFieldUpdate)
	mux.HandleFunc("POST /api/v1/booking/day", booking.HandleSelectDay)
	mux.HandleFunc("POST /api/v1/booking/time", booking.HandleSelectTime)
	mux.HandleFunc("POST /api/v1/booking/next", booking.HandleNext)
	mux.HandleFunc("POST /api/v1/booking/back", booking.HandleBack)
	mux.HandleFunc("POST /api/v1/booking/submit", booking.HandleSubmit)

	staticDir := cfg.App.StaticDir
	fs := http.FileServer(http.Dir(staticDir))

	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Serving static file")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casewatch/internal/caseevents"
	"casewatch/internal/dispatch"
	"casewatch/internal/eventstore"
	"casewatch/internal/mailing"
	"casewatch/internal/matching"
	notifhandler "casewatch/internal/notification/handler"
	notifmodels "casewatch/internal/notification/models"
	notifservice "casewatch/internal/notification/service"
	"casewatch/internal/platform/config"
	"casewatch/internal/platform/httpserver"
	"casewatch/internal/platform/logger"
	"casewatch/internal/platform/metrics"
	platformredis "casewatch/internal/platform/redis"
	subhandler "casewatch/internal/subscription/handler"
	submodels "casewatch/internal/subscription/models"
	subservice "casewatch/internal/subscription/service"
	substore "casewatch/internal/subscription/store"

	_ "github.com/lib/pq"
)

// main wires the dependency graph and owns process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	registry := eventstore.NewRegistry()
	submodels.RegisterEvents(registry)
	notifmodels.RegisterEvents(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projection := substore.NewProjection()

	// Event store: postgres when a DSN is configured, otherwise in-process.
	var store eventstore.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg := eventstore.NewPostgres(db, registry)
		if err := pg.ReplayAll(ctx, projection.Apply); err != nil {
			log.Error("rebuild projection", "error", err)
			os.Exit(1)
		}
		tap := eventstore.NewTap(pg)
		tap.Subscribe(projection.Apply)
		store = tap
		log.Info("event store ready", "backend", "postgres")
	} else {
		mem := eventstore.NewInMemory()
		mem.Subscribe(projection.Apply)
		store = mem
		log.Info("event store ready", "backend", "memory")
	}

	// Dispatch queue: redis when configured, otherwise in-process.
	var queue dispatch.Queue
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		queue = dispatch.NewRedisQueue(redisClient, "")
		log.Info("dispatch queue ready", "backend", "redis")
	} else {
		queue = dispatch.NewMemoryQueue(1024)
		log.Info("dispatch queue ready", "backend", "memory")
	}

	subscriptionService := subservice.New(store, log, m)
	notificationService := notifservice.New(store, log, m)

	engine := matching.NewEngine(mailing.NewRenderer(), log)
	matchCfg := matching.Config{
		HearingTemplateID:  cfg.Notify.HearingTemplateID,
		DocumentTemplateID: cfg.Notify.DocumentTemplateID,
		CaseURLBase:        cfg.Notify.CaseURLBase,
		CaseAtAGlancePath:  cfg.Notify.CaseAtAGlancePath,
	}
	eventsService := caseevents.New(projection, engine, dispatch.NewRouter(), queue, matchCfg, log, m)

	worker := dispatch.NewWorker(queue, dispatch.NewLogSender(log), notificationService, log, m)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("dispatch worker stopped", "error", err)
		}
	}()

	router := chi.NewRouter()
	subhandler.New(subscriptionService, projection, log).Register(router)
	notifhandler.New(notificationService, log).Register(router)
	caseevents.NewHandler(eventsService).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting casewatch", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	<-workerDone
}

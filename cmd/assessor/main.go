package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PropertyAssessor/internal/api"
	"PropertyAssessor/internal/assessor"
	"PropertyAssessor/internal/cache"
	"PropertyAssessor/internal/config"
	"PropertyAssessor/internal/listing"
	"PropertyAssessor/internal/notifier"
	"PropertyAssessor/internal/scheduler"
	"PropertyAssessor/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PropertyAssessor starting...")

	config.LoadDotEnv(".env")
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	db, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open listing store: %v", err)
	}
	defer db.Close()

	var rec store.AnalysisRecorder = store.NewNoopRecorder()
	if cfg.Database.RecordAnalyses {
		rec = db
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c cache.Cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.Cache.TTL)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Printf("[WARN] redis %s unreachable, using in-memory cache: %v", cfg.Cache.RedisAddr, err)
			rc.Close()
		} else {
			c = rc
			defer rc.Close()
			log.Printf("[INFO] analysis cache: redis %s", cfg.Cache.RedisAddr)
		}
		pingCancel()
	}

	src := listing.NewSource(cfg.Listing.Source, cfg.Proxy)
	log.Printf("[INFO] listing source: %s", src.Name())

	svc := assessor.NewService(db, rec, c, listing.NewLoader(src), cfg.Assumptions)
	svc.Workers = cfg.Screen.Workers

	if n, err := db.Count(ctx, store.Filter{}); err != nil {
		log.Fatalf("[FATAL] count listings: %v", err)
	} else if n == 0 {
		log.Println("[INFO] listing store empty, running initial import")
		if _, err := svc.Import(ctx); err != nil {
			log.Printf("[WARN] initial import: %v", err)
		}
	}

	// Telegram is optional; without it scheduled reports are only logged.
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	screenFilter := store.Filter{
		City:     cfg.Screen.City,
		HomeType: cfg.Screen.HomeType,
		MaxPrice: cfg.Screen.MaxPrice,
	}
	sched := scheduler.NewScheduler(ctx, svc, sender, screenFilter, cfg.Screen.Top)
	if err := sched.RegisterAll(cfg.Schedule.ImportCron, cfg.Schedule.ScreenCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	router := api.NewRouter(api.NewPropertyHandler(svc, db, cfg.Assumptions), cfg.HTTP.CORSOrigins)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("[ERROR] http server: %v", err)
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] PropertyAssessor stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "seatbooking/internal/config"
	router "seatbooking/internal/http"
	"seatbooking/internal/http/handlers"
	"seatbooking/internal/jobs"
	"seatbooking/internal/notify"
	"seatbooking/internal/services"
	"seatbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.InitLogger(env.GinMode != gin.ReleaseMode)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := intconfig.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	sink, err := notify.NewSink(ctx, env)
	if err != nil {
		logger.Fatal("notification sink setup failed", zap.Error(err))
	}

	clock := clockwork.NewRealClock()
	lockWait := env.LockWait()

	reservations := services.ReservationService{
		DB:               db,
		Clock:            clock,
		HoldDuration:     env.HoldDuration,
		LockTimeout:      lockWait,
		StrictHoldExpiry: env.StrictHoldExpiry,
	}
	capacity := services.CapacityService{DB: db, LockTimeout: lockWait}
	docs := services.DocsService{DB: db, LockTimeout: lockWait}
	auth := services.AuthService{DB: db, Secret: []byte(env.JWTSecret), Clock: clock, LockTimeout: lockWait}
	sweeper := services.HoldSweeper{DB: db, Clock: clock, BatchSize: env.SweepBatchSize, LockTimeout: lockWait}
	outbox := services.NotificationService{
		DB:          db,
		Sink:        sink,
		Clock:       clock,
		BatchSize:   env.OutboxBatchSize,
		MaxAttempts: env.OutboxMaxAttempts,
		LockTimeout: lockWait,
	}

	sched, err := jobs.New(clock)
	if err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	if err := sched.Every("expire_holds", env.SweepInterval, sweeper.Sweep); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	if err := sched.Every("deliver_notifications", env.OutboxInterval, outbox.ProcessOutbox); err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()

	api := handlers.NewAPI(db, reservations, capacity, docs, auth)
	r := router.NewRouter(env, api)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr), zap.String("notify", sink.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

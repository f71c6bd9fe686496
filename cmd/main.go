package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samandr77/agencydesk/internal/api"
	"github.com/samandr77/agencydesk/internal/repository"
	"github.com/samandr77/agencydesk/internal/service"
	"github.com/samandr77/agencydesk/pkg/broker"
	"github.com/samandr77/agencydesk/pkg/config"
	"github.com/samandr77/agencydesk/pkg/job"
	"github.com/samandr77/agencydesk/pkg/logger"
	"github.com/samandr77/agencydesk/pkg/postgres"
)

const (
	ReadTimeout  = 3 * time.Second
	WriteTimeout = 2 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	panicOnErr("create logger", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	err = postgres.UpMigrations(cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	clientRepo := repository.NewClientRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.ClientEventsTopic)
	defer producer.Close()

	s := service.New(clientRepo, producer)
	auth := service.NewAuth(cfg.JWT, userRepo, sessionRepo)

	{
		job.NewRunner().
			Register("notify overdue payments", cfg.Jobs.OverdueScanInterval, s.NotifyOverduePayments).
			Register("clean expired sessions", cfg.Jobs.SessionCleanupInterval, auth.CleanExpiredSessions).
			Start(ctx)
	}

	handler := api.NewHandler(s, auth)
	mw := api.NewMiddleware(auth)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		err = server.Shutdown(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}
	}()

	wg.Wait()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}

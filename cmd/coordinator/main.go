package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/meeting-coordinator/internal/config"
	httptransport "github.com/example/meeting-coordinator/internal/http"
	"github.com/example/meeting-coordinator/internal/logging"
	"github.com/example/meeting-coordinator/internal/notify"
	"github.com/example/meeting-coordinator/internal/owner"
	"github.com/example/meeting-coordinator/internal/persistence/sqlite"
	"github.com/example/meeting-coordinator/internal/workflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(parseLevel(cfg.LogLevel))

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	sessionRepo := sqlite.NewSessionRepository(storage)
	holdRepo := sqlite.NewHoldRepository(storage)
	eventRepo := sqlite.NewEventRepository(storage)
	constraintRepo := sqlite.NewConstraintRepository(storage)
	vipPolicyRepo := sqlite.NewVipPolicyRepository(storage)
	historyRepo := sqlite.NewHistoryRepository(storage)

	registry := owner.NewRegistry(owner.Deps{
		Events:      eventRepo,
		Constraints: constraintRepo,
		VipPolicies: vipPolicyRepo,
		Holds:       holdRepo,
		History:     historyRepo,
		Logger:      logger,
	})

	queue := notify.NewQueue(notify.WithBufferSize(cfg.NotifyBuffer))
	defer func() {
		_ = queue.Close()
	}()
	go drainNotifications(queue, logger)

	service := workflow.NewService(workflow.Config{
		Owners:        registryAdapter{registry},
		Sessions:      sessionRepo,
		Holds:         holdRepo,
		Sink:          queue,
		Logger:        logger,
		HoldTTL:       cfg.HoldTTL,
		MaxCandidates: cfg.MaxCandidates,
		StepMinutes:   cfg.StepMinutes,
	})

	sweeper := workflow.NewSweeper(service, cfg.SweepInterval)
	go sweeper.Run(ctx)

	sessionHandler := httptransport.NewSessionHandler(service, logger)
	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions: sessionHandler,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Instrument(),
			httptransport.RequirePrincipal(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("coordinator API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// registryAdapter narrows the concrete registry to the workflow's interface.
type registryAdapter struct {
	registry *owner.Registry
}

func (a registryAdapter) Owner(userID string) workflow.DataOwner {
	return a.registry.Owner(userID)
}

// drainNotifications consumes reservation notifications until the queue is
// closed. Delivery to external calendar providers hangs off this loop; for
// now each notification is logged.
func drainNotifications(queue *notify.Queue, logger *slog.Logger) {
	for reservation := range queue.Dequeue() {
		logger.Info("reservation notification",
			"kind", string(reservation.Kind),
			"session_id", reservation.SessionID,
			"hold_id", reservation.HoldID,
			"account_id", reservation.AccountID,
			"start", reservation.Start,
			"end", reservation.End,
		)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

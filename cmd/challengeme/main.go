package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/challengeme/client/internal/config"
	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/rewards"
	"github.com/challengeme/client/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	sess, err := session.New(session.Config{
		BaseURL:        cfg.BaseURL,
		Token:          cfg.Token,
		PollInterval:   cfg.PollInterval,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer sess.Close()

	printProfile(sess.Profile().Get())

	// Echo feed changes as the poller commits them.
	cancel := sess.Notifications.Feed().Subscribe(func(feed []models.Notification) {
		unread := sess.Notifications.UnreadCount()
		fmt.Printf("\n── Notifications (%d unread) ──\n", unread)
		for i, n := range feed {
			if i == 5 {
				fmt.Printf("   … %d more\n", len(feed)-5)
				break
			}
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf(" %s [%s] %s\n", marker, n.Type, n.Message)
		}
	})
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")
}

func printProfile(p models.UserProfile) {
	into, span := rewards.LevelProgress(p.Points)
	fmt.Printf("Signed in as %s: level %d (%d/%d XP into level), %d points, %d challenges completed, %d badges\n",
		p.Username, rewards.Level(p.Points), into, span, p.Points, p.TotalCompletedChallenges, len(p.Badges))
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Command send-expiry-reminders runs one expiry reminder pass and exits.
// Schedule it daily; it exits non-zero when any document could not be processed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/repository"
	"github.com/noah-isme/fortidesk-api/internal/service"
	"github.com/noah-isme/fortidesk-api/pkg/cache"
	"github.com/noah-isme/fortidesk-api/pkg/config"
	"github.com/noah-isme/fortidesk-api/pkg/database"
	"github.com/noah-isme/fortidesk-api/pkg/lock"
	"github.com/noah-isme/fortidesk-api/pkg/logger"
	"github.com/noah-isme/fortidesk-api/pkg/mailer"
)

const reminderLockKey = "lock:expiry-reminders"

func main() {
	dateFlag := flag.String("date", "", "reference date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	code := run(cfg, logr, *dateFlag)
	_ = logr.Sync()
	os.Exit(code)
}

func run(cfg *config.Config, logr *zap.Logger, rawDate string) int {
	day := compliance.Today()
	if rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date %q: want YYYY-MM-DD\n", rawDate)
			return 2
		}
		day = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Error("failed to connect database", zap.Error(err))
		return 1
	}
	defer db.Close()

	var locker lock.Locker = lock.Noop{}
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, running without the reminder lock", zap.Error(err))
	} else {
		defer client.Close()
		redisLock, err := lock.NewRedisLock(lock.ClientStore{Client: client}, reminderLockKey, cfg.Reminders.LockTTL)
		if err != nil {
			logr.Error("failed to init reminder lock", zap.Error(err))
			return 1
		}
		locker = redisLock
	}

	sender, err := mailer.New(cfg.Mail, logr)
	if err != nil {
		logr.Error("failed to init mailer", zap.Error(err))
		return 1
	}

	documents := repository.NewDocumentRepository(db)
	owners := service.NewOwnerDirectory(map[compliance.OwnerKind]service.OwnerResolver{
		compliance.OwnerAthlete: service.NewAthleteOwnerResolver(repository.NewAthleteRepository(db), repository.NewGuardianRepository(db)),
		compliance.OwnerStaff:   service.NewStaffOwnerResolver(repository.NewStaffRepository(db)),
	})

	reminders := service.NewReminderService(service.ReminderServiceParams{
		Documents:     documents,
		Owners:        owners,
		Sender:        sender,
		Locker:        locker,
		Logger:        logr,
		LookaheadDays: cfg.Compliance.LookaheadDays,
	})

	summary, err := reminders.Dispatch(ctx, day)
	if summary != nil && summary.Skipped {
		fmt.Println("Another reminder run is in progress; nothing sent.")
		return 0
	}
	if summary != nil {
		fmt.Printf("Sent %d reminder email(s).\n", summary.Notified)
	}
	if err != nil {
		logr.Error("reminder run failed", zap.Error(err))
		return 1
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/fortidesk-api/api/swagger"
	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/handler"
	"github.com/noah-isme/fortidesk-api/internal/repository"
	"github.com/noah-isme/fortidesk-api/internal/service"
	"github.com/noah-isme/fortidesk-api/pkg/cache"
	"github.com/noah-isme/fortidesk-api/pkg/config"
	"github.com/noah-isme/fortidesk-api/pkg/database"
	"github.com/noah-isme/fortidesk-api/pkg/jobs"
	"github.com/noah-isme/fortidesk-api/pkg/lock"
	"github.com/noah-isme/fortidesk-api/pkg/logger"
	"github.com/noah-isme/fortidesk-api/pkg/mailer"
)

// @title FortiDesk API
// @version 1.0.0
// @description Compliance tracking, reports, expiry reminders and training calendar for a youth sports club
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const reminderLockKey = "lock:expiry-reminders"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.Cmdable
	var locker lock.Locker = lock.Noop{}
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, dashboard cache and run lock disabled", zap.Error(err))
	} else {
		defer client.Close()
		redisClient = client
		if locker, err = lock.NewRedisLock(lock.ClientStore{Client: client}, reminderLockKey, cfg.Reminders.LockTTL); err != nil {
			logr.Fatal("failed to init reminder lock", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	athletes := repository.NewAthleteRepository(db)
	staff := repository.NewStaffRepository(db)
	guardians := repository.NewGuardianRepository(db)
	insurances := repository.NewInsuranceRepository(db)
	documents := repository.NewDocumentRepository(db)
	teams := repository.NewTeamRepository(db)
	sessions := repository.NewTrainingSessionRepository(db)
	users := repository.NewUserRepository(db)

	owners := service.NewOwnerDirectory(map[compliance.OwnerKind]service.OwnerResolver{
		compliance.OwnerAthlete: service.NewAthleteOwnerResolver(athletes, guardians),
		compliance.OwnerStaff:   service.NewStaffOwnerResolver(staff),
	})

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	complianceSvc := service.NewComplianceService(service.ComplianceServiceParams{
		Athletes:      athletes,
		Staff:         staff,
		Insurances:    insurances,
		Documents:     documents,
		Teams:         teams,
		Owners:        owners,
		Cache:         cacheSvc,
		Logger:        logr,
		LookaheadDays: cfg.Compliance.LookaheadDays,
		CacheTTL:      cfg.Dashboard.CacheTTL,
	})

	sender, err := mailer.New(cfg.Mail, logr)
	if err != nil {
		logr.Fatal("failed to init mailer", zap.Error(err))
	}
	reminderSvc := service.NewReminderService(service.ReminderServiceParams{
		Documents:     documents,
		Owners:        owners,
		Sender:        sender,
		Locker:        locker,
		Metrics:       metrics,
		Logger:        logr,
		LookaheadDays: cfg.Compliance.LookaheadDays,
	})

	reminderQueue := jobs.NewQueue(handler.ReminderJobType, reminderJob(reminderSvc, complianceSvc, logr), jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Reminders.QueueBuffer,
		MaxRetries: cfg.Reminders.QueueRetries,
		Logger:     logr,
	})
	reminderQueue.Start(ctx)
	defer reminderQueue.Stop()

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "fortidesk",
	})

	athleteSvc := service.NewAthleteService(service.AthleteServiceParams{
		Athletes:   athletes,
		Guardians:  guardians,
		Insurances: insurances,
		Teams:      teams,
		Dashboards: complianceSvc,
		Validate:   validate,
		Logger:     logr,
	})

	handlers := routeHandlers{
		auth:       handler.NewAuthHandler(authSvc),
		compliance: handler.NewComplianceHandler(complianceSvc),
		reports:    handler.NewReportHandler(complianceSvc),
		athletes:   handler.NewAthleteHandler(athleteSvc),
		staff:      handler.NewStaffHandler(service.NewStaffService(staff, complianceSvc, validate, logr)),
		teams:      handler.NewTeamHandler(service.NewTeamService(teams, staff, complianceSvc, validate)),
		documents:  handler.NewDocumentHandler(service.NewDocumentService(documents, owners, complianceSvc, validate, logr)),
		reminders:  handler.NewReminderHandler(reminderSvc, reminderQueue),
		training:   handler.NewTrainingHandler(service.NewTrainingService(sessions, teams, validate, logr)),
		metrics:    handler.NewMetricsHandler(metrics, db, logr),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg, logr, metrics, authSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// reminderJob runs one queued dispatch and drops the cached dashboard once
// documents have been marked.
func reminderJob(reminders *service.ReminderService, dashboards *service.ComplianceService, logr *zap.Logger) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		day, _ := job.Payload.(time.Time)
		summary, err := reminders.Dispatch(ctx, day)
		if summary != nil && summary.Marked > 0 {
			dashboards.InvalidateDashboard(ctx)
		}
		if err != nil {
			return err
		}
		logr.Info("queued reminder run finished",
			zap.String("job_id", job.ID),
			zap.Bool("skipped", summary.Skipped),
			zap.Int("notified", summary.Notified),
			zap.Int("failed", summary.Failed),
		)
		return nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/educonnectt/educonnect-api/api/swagger"
	"github.com/educonnectt/educonnect-api/internal/handler"
	"github.com/educonnectt/educonnect-api/internal/repository"
	"github.com/educonnectt/educonnect-api/internal/router"
	"github.com/educonnectt/educonnect-api/internal/service"
	"github.com/educonnectt/educonnect-api/pkg/cache"
	"github.com/educonnectt/educonnect-api/pkg/config"
	"github.com/educonnectt/educonnect-api/pkg/database"
	"github.com/educonnectt/educonnect-api/pkg/jobs"
	"github.com/educonnectt/educonnect-api/pkg/logger"
	"github.com/educonnectt/educonnect-api/pkg/mail"
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

// @title EduConnectt API
// @version 1.0.0
// @description School management platform for student and teacher onboarding
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	mailer, err := mail.New(mail.Config{
		Provider:    cfg.Mail.Provider,
		SendgridKey: cfg.Mail.SendgridKey,
		FromName:    cfg.Mail.FromName,
		FromEmail:   cfg.Mail.FromEmail,
	}, logr)
	if err != nil {
		logr.Fatal("failed to init mailer", zap.Error(err))
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled && redisClient != nil)

	notifier := service.NewNotificationService(mailer, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}, logr)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier.Start(rootCtx)
	defer notifier.Stop()

	authSvc := service.NewAuthService(studentRepo, teacherRepo, staffRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registrationSvc := service.NewRegistrationService(service.RegistrationServiceParams{
		Students:  studentRepo,
		Teachers:  teacherRepo,
		Subjects:  subjectRepo,
		Tokens:    authSvc,
		Notifier:  notifier,
		Metrics:   metricsSvc,
		Validator: validate,
		Logger:    logr,
	})
	subjectSvc := service.NewSubjectService(subjectRepo, teacherRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, signer, notifier, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, studentRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, paymentRepo, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, subjectRepo, signer, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Repo:     dashboardRepo,
		Students: studentRepo,
		Payments: paymentRepo,
		Cache:    cacheSvc,
		CacheTTL: cfg.Dashboard.CacheTTL,
		Logger:   logr,
	})

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		Auth:    authSvc,
		Metrics: metricsSvc,
		Staff:   staffRepo,

		AuthHandler:       handler.NewAuthHandler(authSvc, registrationSvc, uploads, cfg.Uploads.MaxFileSizeBytes, logr),
		StudentHandler:    handler.NewStudentHandler(studentSvc),
		TeacherHandler:    handler.NewTeacherHandler(teacherSvc),
		SubjectHandler:    handler.NewSubjectHandler(subjectSvc),
		PaymentHandler:    handler.NewPaymentHandler(paymentSvc, uploads, cfg.Uploads.MaxFileSizeBytes, logr),
		MessageHandler:    handler.NewMessageHandler(messageSvc),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentSvc),
		DashboardHandler:  handler.NewDashboardHandler(dashboardSvc),
		FileHandler:       handler.NewFileHandler(uploads, signer, logr),
		MetricsHandler:    handler.NewMetricsHandler(metricsSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logr.Info("server stopped")
}

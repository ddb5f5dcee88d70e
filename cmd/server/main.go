package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jobportal/jobportal/internal/activity"
	"github.com/jobportal/jobportal/internal/applications"
	"github.com/jobportal/jobportal/internal/auth"
	"github.com/jobportal/jobportal/internal/config"
	"github.com/jobportal/jobportal/internal/dashboard"
	"github.com/jobportal/jobportal/internal/database"
	"github.com/jobportal/jobportal/internal/health"
	"github.com/jobportal/jobportal/internal/jobs"
	"github.com/jobportal/jobportal/internal/listing"
	"github.com/jobportal/jobportal/internal/models"
	"github.com/jobportal/jobportal/internal/notifications"
	"github.com/jobportal/jobportal/internal/notify"
	"github.com/jobportal/jobportal/internal/search"
	"github.com/jobportal/jobportal/internal/storage"
	"github.com/jobportal/jobportal/internal/triggers"
	"github.com/jobportal/jobportal/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if cfg.SeedDev {
		if err := database.SeedDevData(db); err != nil {
			return fmt.Errorf("seed dev data: %w", err)
		}
	}

	if cfg.TokenEncryptionKey == "" {
		logger.Warn("TOKEN_ENCRYPTION_KEY not set, OAuth tokens will be stored unencrypted")
	} else if err := models.InitEncryption(cfg.TokenEncryptionKey); err != nil {
		return fmt.Errorf("init token encryption: %w", err)
	}

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		return fmt.Errorf("init task client: %w", err)
	}
	defer worker.CloseClient()

	files, err := storage.NewFiles(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("init upload storage: %w", err)
	}

	// Cache and index feed are accelerators; the board serves without them.
	cache, err := listing.NewCache(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Warn("listing cache unavailable, serving uncached", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}
	feed, err := search.NewPublisher(cfg.RedisURL)
	if err != nil {
		logger.Warn("search index feed unavailable, skipping index events", "error", err)
		feed = nil
	} else {
		defer feed.Close()
	}

	dispatcher := notify.NewDispatcher(notify.NewStore(db), worker.EnqueueSendEmail, cfg.SiteURL, logger)
	recorder := activity.NewRecorder(db, logger)
	observer := triggers.NewObserver(dispatcher, recorder, feed, cfg.SiteURL, logger)

	jobSvc := jobs.NewService(db)
	jobSvc.AddHook(observer.JobHook())
	appSvc := applications.NewService(db)
	appSvc.AddHook(observer.ApplicationHook())

	lister := listing.NewService(db, cache, logger)

	auth.InitProviders(cfg)

	stopWorker, err := worker.Start(cfg, db, files)
	if err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer stopScheduler()

	router := newRouter(cfg, db, files, recorder, dispatcher, jobSvc, appSvc, lister)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(
	cfg *config.Config,
	db *gorm.DB,
	files *storage.Files,
	recorder *activity.Recorder,
	dispatcher *notify.Dispatcher,
	jobSvc *jobs.Service,
	appSvc *applications.Service,
	lister *listing.Service,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
	})
	router.Use(sessions.Sessions("jobportal_session", store))
	router.Use(auth.LoadUser(db))
	router.Use(activity.TrackViews(recorder))

	router.GET("/health", health.Handler)
	router.GET("/ready", health.Readiness(db))
	// Only profile images and their thumbnails are public. Resumes stay off
	// the static mount and are served through ownership-checked handlers.
	router.Static("/media/profile_images", filepath.Join(cfg.UploadDir, "profile_images"))

	authHandlers := auth.NewHandlers(db, dispatcher, recorder, worker.EnqueueSendEmail, files, cfg.SiteURL)
	jobHandlers := jobs.NewHandlers(jobSvc, lister)
	appHandlers := applications.NewHandlers(appSvc, files)
	notifHandlers := notifications.NewHandlers(db)
	dashHandlers := dashboard.NewHandlers(db)

	ar := router.Group("/auth")
	{
		ar.POST("/register", authHandlers.Register)
		ar.POST("/login", authHandlers.Login)
		ar.POST("/logout", auth.RequireAuth(), authHandlers.Logout)
		ar.GET("/verify/:token", authHandlers.VerifyEmail)
		ar.GET("/google", authHandlers.GoogleLogin)
		ar.GET("/google/callback", authHandlers.GoogleCallback)
		ar.POST("/choose-role", auth.RequireAuth(), authHandlers.ChooseRole)
	}

	pr := router.Group("/profile", auth.RequireAuth())
	{
		pr.GET("", authHandlers.Profile)
		pr.PUT("", authHandlers.UpdateProfile)
		pr.POST("/image", authHandlers.UploadProfileImage)
		pr.POST("/resume", auth.RequireSeeker(), authHandlers.UploadResume)
		pr.GET("/resume", auth.RequireSeeker(), authHandlers.DownloadResume)
	}

	jr := router.Group("/jobs")
	{
		jr.GET("", jobHandlers.List)
		jr.GET("/mine", auth.RequireEmployer(), jobHandlers.Mine)
		jr.GET("/:id", jobHandlers.Get)
		jr.POST("", auth.RequireEmployer(), jobHandlers.Create)
		jr.PUT("/:id", auth.RequireEmployer(), jobHandlers.Update)
		jr.DELETE("/:id", auth.RequireEmployer(), jobHandlers.Delete)
		jr.POST("/:id/apply", auth.RequireSeeker(), appHandlers.Apply)
		jr.GET("/:id/applications", auth.RequireEmployer(), appHandlers.ForJob)
	}

	apr := router.Group("/applications", auth.RequireAuth())
	{
		apr.GET("/mine", auth.RequireSeeker(), appHandlers.Mine)
		apr.GET("/:id", appHandlers.Get)
		apr.GET("/:id/resume", appHandlers.DownloadResume)
		apr.PUT("/:id/status", auth.RequireEmployer(), appHandlers.UpdateStatus)
	}

	mr := router.Group("/moderation", auth.RequireStaff())
	{
		mr.GET("/jobs", jobHandlers.Pending)
		mr.POST("/jobs/:id", jobHandlers.Moderate)
	}

	nr := router.Group("/notifications", auth.RequireAuth())
	{
		nr.GET("", notifHandlers.List)
		nr.GET("/recent", notifHandlers.Recent)
		nr.POST("/:id/read", notifHandlers.MarkRead)
		nr.POST("/read-all", notifHandlers.MarkAllRead)
	}

	router.GET("/dashboard", auth.RequireAuth(), dashHandlers.Stats)

	return router
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/auth"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/cache"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/candidates"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/config"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/db"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/funnel"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/handlers"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/leads"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/monitoring"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/notifications"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/projects"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/solar"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/uploads"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "quantum-solar-crm",
		}
	}

	val := validation.New()
	dispatcher := notifications.NewDispatcher(logger, 8*time.Second)

	brevo := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.SalesNotifyEmail, cfg.BrevoSandbox)
	if brevo == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	twilioSMS := notifications.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.SalesNotifyPhone)
	if twilioSMS == nil {
		logger.Info("twilio sms disabled")
	}

	metaPixel := notifications.NewMetaPixelClient(cfg.MetaPixelID, cfg.MetaAccessToken)
	if metaPixel == nil {
		logger.Info("meta pixel disabled")
	}
	ga4 := notifications.NewGA4Client(cfg.GA4MeasurementID, cfg.GA4APISecret)
	if ga4 == nil {
		logger.Info("ga4 analytics disabled")
	}

	// Typed-nil clients must not end up inside non-nil interfaces.
	var leadMailer leads.EmailNotifier
	if brevo != nil {
		leadMailer = brevo
	}
	var leadSMS leads.SMSNotifier
	if twilioSMS != nil {
		leadSMS = twilioSMS
	}
	var pixelNotifier leads.ConversionNotifier
	if metaPixel != nil {
		pixelNotifier = metaPixel
	}
	var analyticsNotifier leads.ConversionNotifier
	if ga4 != nil {
		analyticsNotifier = ga4
	}

	snapshotStore := funnel.NewSnapshotStore(cacheStore, time.Duration(cfg.SnapshotTTLHours)*time.Hour)
	funnelHandler := funnel.NewHandler(snapshotStore, cfg.Timezone, logger)

	leadsRepo := leads.NewRepository(cols.Leads, cols.DisqualifiedLeads)
	leadsService := leads.NewService(leadsRepo, cfg.Timezone, leadMailer, leadSMS, pixelNotifier, analyticsNotifier)
	leadsHandler := leads.NewHandler(leadsService, val, logger, dispatcher, snapshotStore)

	projectsRepo := projects.NewRepository(cols.Projects, cols.StageHistory)
	projectsService := projects.NewService(projectsRepo, cfg.Timezone, logger)
	projectsImporter := projects.NewImporter(projectsRepo, cfg.Timezone)
	projectsHandler := projects.NewHandler(projectsService, projectsImporter, val, logger)

	candidatesRepo := candidates.NewRepository(cols.Candidates)
	candidatesService := candidates.NewService(candidatesRepo, cfg.Timezone)
	candidatesHandler := candidates.NewHandler(candidatesService, val, logger)

	storage, err := uploads.NewS3Storage(cfg.AWSRegion, cfg.S3Bucket, "uploads")
	if err != nil {
		logger.Error("s3 storage init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if storage == nil {
		logger.Info("s3 storage disabled")
	}
	var uploadStorage uploads.Storage
	if storage != nil {
		uploadStorage = storage
	}
	var uploadMailer uploads.EmailNotifier
	if brevo != nil {
		uploadMailer = brevo
	}
	uploadsRepo := uploads.NewRepository(cols.Uploads)
	uploadsService := uploads.NewService(uploadsRepo, uploadStorage, cfg.Timezone, uploadMailer, logger)
	uploadsHandler := uploads.NewHandler(uploadsService, val, logger, dispatcher)

	solarHandler := solar.NewHandler(solar.NewClient(cfg.SolarAPIKey), logger)
	monitoringHandler := monitoring.NewHandler(monitoring.NewClient(cfg.EnlightenAPIKey, cfg.EnlightenAccessToken), projectsService, logger)

	server := &handlers.Server{
		Cfg:  cfg,
		Cols: cols,
		Val:  val,
		Log:  logger,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	leadsLimiter := middleware.NewRateLimiter(cfg.RateLimitLeads, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	uploadsLimiter := middleware.NewRateLimiter(cfg.RateLimitUploads, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.With(leadsLimiter.Middleware).Post("/leads", leadsHandler.Submit)
		api.With(leadsLimiter.Middleware).Post("/leads/disqualified", leadsHandler.CreateDisqualified)

		api.With(leadsLimiter.Middleware).Post("/funnel/session", funnelHandler.Save)
		api.Get("/funnel/session/{sessionID}", funnelHandler.Resume)
		api.Delete("/funnel/session/{sessionID}", funnelHandler.Discard)

		api.With(uploadsLimiter.Middleware).Post("/uploads/bill", uploadsHandler.UploadBill)
		api.With(uploadsLimiter.Middleware).Post("/uploads/photos", uploadsHandler.UploadPhotos)

		api.Get("/solar/estimate", solarHandler.Estimate)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/register", server.AdminRegister)
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			// Important (chi): middlewares must be attached before defining routes.
			// Login/refresh/logout stay public; everything else sits behind auth.
			admin.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

				protected.Post("/users", server.AdminCreateUser)
				protected.Patch("/users/{id}/password", server.AdminUpdateUserPassword)

				protected.Get("/leads", leadsHandler.AdminList)
				protected.Get("/leads/disqualified", leadsHandler.AdminListDisqualified)
				protected.Get("/leads/{id}", leadsHandler.AdminGetByID)
				protected.Patch("/leads/{id}/status", leadsHandler.AdminUpdateStatus)

				protected.Get("/projects", projectsHandler.List)
				protected.Post("/projects", projectsHandler.Create)
				protected.Post("/projects/import", projectsHandler.Import)
				protected.Get("/projects/{id}", projectsHandler.GetByID)
				protected.Put("/projects/{id}", projectsHandler.Update)
				protected.Patch("/projects/{id}/stage", projectsHandler.AdvanceStage)
				protected.Get("/projects/{id}/history", projectsHandler.History)
				protected.Get("/projects/{id}/monitoring", monitoringHandler.ProjectTelemetry)

				protected.Get("/candidates", candidatesHandler.List)
				protected.Post("/candidates", candidatesHandler.Create)
				protected.Get("/candidates/{id}", candidatesHandler.GetByID)
				protected.Put("/candidates/{id}", candidatesHandler.Update)
				protected.Delete("/candidates/{id}", candidatesHandler.Delete)

				protected.Get("/uploads", uploadsHandler.AdminList)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

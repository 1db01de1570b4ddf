package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retreat_screening_backend/internal/config"
	"retreat_screening_backend/internal/controller"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/pkg/database"
	"retreat_screening_backend/pkg/logger"
	"retreat_screening_backend/pkg/monitoring"
	"retreat_screening_backend/pkg/security"
	"retreat_screening_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	participant *repository.ParticipantRepository
	application *repository.ApplicationRepository
	form        *repository.FormRepository
	response    *repository.FieldResponseRepository
	scoringRule *repository.ScoringRuleRepository
	screening   *repository.ScreeningRepository
	lock        *repository.ProcessingLockRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	participant *service.ParticipantService
	application *service.ApplicationService
	form        *service.FormService
	scoring     *service.ScoringService
	scoringRule *service.ScoringRuleService
	screening   *service.ScreeningService
	crm         *service.CRMService
	webhook     *service.WebhookService
	storage     *service.StorageService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	participant *controller.ParticipantController
	application *controller.ApplicationController
	form        *controller.FormController
	scoringRule *controller.ScoringRuleController
	screening   *controller.ScreeningController
	webhook     *controller.WebhookController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		participant: repository.NewParticipantRepository(db),
		application: repository.NewApplicationRepository(db),
		form:        repository.NewFormRepository(db),
		response:    repository.NewFieldResponseRepository(db),
		scoringRule: repository.NewScoringRuleRepository(db),
		screening:   repository.NewScreeningRepository(db),
		lock:        repository.NewProcessingLockRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, rdb, cfg)
	s.user = service.NewUserService(repos.user)
	s.participant = service.NewParticipantService(repos.participant)
	s.form = service.NewFormService(repos.form)
	s.scoringRule = service.NewScoringRuleService(repos.scoringRule)
	s.scoring = service.NewScoringService(repos.scoringRule, repos.response, repos.application)
	s.screening = service.NewScreeningService(repos.screening, repos.application)

	crmClient := service.NewCRMClient(cfg.CRM)
	s.crm = service.NewCRMService(crmClient, repos.application, repos.participant, cfg.CRM.SyncTimeout)

	s.application = service.NewApplicationService(repos.application, repos.response, s.scoring, s.crm, cfg.Webhook.RetryDelay)

	s.webhook = service.NewWebhookService(
		repos.lock,
		repos.user,
		repos.participant,
		repos.application,
		repos.form,
		repos.response,
		repos.screening,
		s.scoring,
		s.crm,
		rdb,
		cfg.Webhook.RetryDelay,
		time.Duration(cfg.Webhook.LockStaleMinutes)*time.Minute,
	)

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		logger.Log.Warn("attachment storage unavailable, uploads disabled", zap.Error(err))
	} else {
		s.storage = storage
	}

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		participant: controller.NewParticipantController(s.participant),
		application: controller.NewApplicationController(s.application, s.storage),
		form:        controller.NewFormController(s.form),
		scoringRule: controller.NewScoringRuleController(s.scoringRule),
		screening:   controller.NewScreeningController(s.screening),
		webhook:     controller.NewWebhookController(s.webhook),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes == 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the stale-lock sweeper so submissions stranded by
// a crash are retried even when the external cron endpoint is never called.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			n, err := s.webhook.SweepStaleLocks()
			if err != nil {
				logger.Log.Error("stale lock sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("reprocessed stale submissions", zap.Int("count", n))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.ShouldMigrate())
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("screening-console", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if !cfg.MigrateOnly {
		app.startBackgroundTasks(services)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gscormer_backend/internal/config"
	"gscormer_backend/internal/controller"
	"gscormer_backend/internal/repository"
	"gscormer_backend/internal/service"
	"gscormer_backend/pkg/database"
	"gscormer_backend/pkg/logger"
	"gscormer_backend/pkg/monitoring"
	"gscormer_backend/pkg/security"
	"gscormer_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user    *repository.UserRepository
	scorm   *repository.ScormRepository
	course  *repository.CourseRepository
	updates *repository.UpdateRepository
}

type services struct {
	sessions *service.SessionRegistry
	auth     *service.AuthService
	scorm    *service.ScormService
	course   *service.CourseService
	storage  *service.StorageService
	workflow *service.StatusWorkflow
	grouping service.GroupingEngine
}

type controllers struct {
	auth   *controller.AuthController
	scorm  *controller.ScormController
	course *controller.CourseController
	status *controller.StatusController
	filter *controller.FilterController
	health *controller.HealthController
}

// RegisterConfigCallback subscribes to config reloads; the language table
// is the main consumer.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded config out to the subscribers.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		scorm:   repository.NewScormRepository(db),
		course:  repository.NewCourseRepository(db),
		updates: repository.NewUpdateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.sessions = service.NewSessionRegistry()
	s.auth = service.NewAuthService(repos.user, s.sessions, cfg.JWT)
	s.scorm = service.NewScormService(repos.scorm, repos.updates, rdb, cfg.Languages)

	ref := service.ReferenceIndex{NormalizeLang: s.scorm.NormalizeLanguage}
	s.course = service.NewCourseService(repos.course, s.scorm, ref, rdb)
	s.storage = service.NewStorageService(cfg, s.scorm)
	s.workflow = service.NewStatusWorkflow(repos.scorm, repos.updates, s.scorm.InvalidateCache)
	s.grouping = service.GroupingEngine{Ref: ref}

	a.RegisterConfigCallback(func(fresh *config.Config) {
		s.scorm.SetLanguages(fresh.Languages)
		s.scorm.InvalidateCache()
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		scorm:  controller.NewScormController(s.scorm, s.course, s.storage, s.workflow, s.sessions),
		course: controller.NewCourseController(s.course, s.grouping, s.sessions),
		status: controller.NewStatusController(s.workflow, s.sessions),
		filter: controller.NewFilterController(s.sessions),
		health: controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
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

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("gscormer", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == config.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
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

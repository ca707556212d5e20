package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lekan/attendease/internal/config"
	"github.com/lekan/attendease/internal/db"
	"github.com/lekan/attendease/internal/faceclient"
	"github.com/lekan/attendease/internal/middleware"
	"github.com/lekan/attendease/internal/pkg/auth"
	"github.com/lekan/attendease/internal/pkg/filestorage"
	"github.com/lekan/attendease/internal/pkg/helpers"
	"github.com/lekan/attendease/internal/pkg/logger"

	"github.com/lekan/attendease/internal/app/controllers"
	"github.com/lekan/attendease/internal/app/migrations"
	"github.com/lekan/attendease/internal/app/repositories"
	"github.com/lekan/attendease/internal/app/routes"
	"github.com/lekan/attendease/internal/app/services"
)

// App holds the assembled application and its shared resources.
type App struct {
	Config *config.Config
	Router *gin.Engine
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Face   *faceclient.Client
}

// Setup builds the application: database, migrations, repositories,
// services, controllers and routes.
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	configureLogging(cfg)

	pool, err := db.NewPgxPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		pool.Close()
		return nil, err
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	face := faceclient.NewClient(faceclient.Config{
		BaseURL: cfg.FaceService.URL,
		Timeout: helpers.ParseDuration(cfg.FaceService.Timeout, 15*time.Second),
		Skip:    cfg.FaceService.Skip,
	})

	repos := repositories.NewRepositories(pool)

	lecturerService := services.NewLecturerService(repos.Lecturer, repos.Student, repos.Course, jwtService, storage)
	studentService := services.NewStudentService(repos.Student, face, jwtService, storage)
	sessionService := services.NewSessionService(repos.Course, repos.Session)
	attendanceService := services.NewAttendanceService(repos.Student, repos.Course, repos.Session, repos.Attendance, face)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, &accountResolver{repos: repos})

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.MaxMultipartMemory = 8 << 20

	app := &App{
		Config: cfg,
		Router: router,
		Pool:   pool,
		Face:   face,
	}

	var rateLimit gin.HandlerFunc
	if cfg.Redis.Addr != "" {
		app.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		rateLimit = middleware.NewRedisRateLimiter(app.Redis, cfg.RateLimit.PerMinute).Middleware()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis rate limiter")
	} else {
		rateLimit = middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst).Middleware()
	}

	routes.Setup(router, routes.Controllers{
		Lecturer:   controllers.NewLecturerController(lecturerService, sessionService),
		Student:    controllers.NewStudentController(studentService),
		Attendance: controllers.NewAttendanceController(attendanceService, sessionService),
	}, authMiddleware, rateLimit, app.healthcheck(), cfg.Server.StoragePath)

	return app, nil
}

// Close releases shared resources.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

// healthcheck reports database and face service status.
func (a *App) healthcheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := gin.H{"status": "ok"}
		httpStatus := 200

		if err := a.Pool.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			httpStatus = 503
		} else {
			status["database"] = "up"
		}

		if err := a.Face.Health(ctx); err != nil {
			status["faceService"] = "down"
		} else {
			status["faceService"] = "up"
		}

		c.JSON(httpStatus, status)
	}
}

// accountResolver adapts the repositories for auth middleware existence
// checks.
type accountResolver struct {
	repos *repositories.Repositories
}

func (r *accountResolver) LecturerExists(ctx context.Context, id int64) error {
	_, err := r.repos.Lecturer.GetByID(ctx, id)
	return err
}

func (r *accountResolver) StudentExists(ctx context.Context, id int64) error {
	_, err := r.repos.Student.GetByID(ctx, id)
	return err
}

func configureLogging(cfg *config.Config) {
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "pretty" || cfg.Server.Mode == "development",
	})
}

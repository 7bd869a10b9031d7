package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Course timetable allocation service
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Allocator.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, cfg.JWT.Secret, cfg.JWT.Expiration)
	courseSvc := service.NewCourseService(courseRepo, nil)
	roomSvc := service.NewRoomService(roomRepo, nil)
	instructorSvc := service.NewInstructorService(instructorRepo, nil)
	timeSlotSvc := service.NewTimeSlotService(timeSlotRepo, nil, logr)
	timetableSvc := service.NewTimetableService(
		courseRepo, roomRepo, timeSlotRepo, instructorRepo,
		scheduleRepo, assignmentRepo, cacheRepo, db, metricsSvc,
		nil, logr,
		service.TimetableConfig{
			MinPerDay:    cfg.Allocator.MinPerDay,
			TimetableTTL: cfg.Allocator.TimetableTTL,
		},
	)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(courseSvc, roomSvc, instructorSvc)
	timeSlotHandler := handler.NewTimeSlotHandler(timeSlotSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/timetable", timetableHandler.Get)
	authed.GET("/timetable/export", timetableHandler.Export)
	authed.GET("/schedules", timetableHandler.ListSchedules)
	authed.GET("/schedules/:id/assignments", timetableHandler.Assignments)
	authed.GET("/time-slots", timeSlotHandler.List)
	authed.GET("/courses", catalogHandler.ListCourses)
	authed.GET("/rooms", catalogHandler.ListRooms)
	authed.GET("/instructors", catalogHandler.ListInstructors)

	scheduler := authed.Group("")
	scheduler.Use(middleware.RBAC(models.RoleAdmin, models.RoleScheduler))
	scheduler.POST("/timetable/generate", timetableHandler.Generate)
	scheduler.DELETE("/schedules/:id", timetableHandler.Delete)
	scheduler.POST("/time-slots/generate", timeSlotHandler.Generate)

	admin := authed.Group("")
	admin.Use(middleware.RBAC(models.RoleAdmin))
	admin.POST("/courses", catalogHandler.CreateCourse)
	admin.POST("/rooms", catalogHandler.CreateRoom)
	admin.POST("/instructors", catalogHandler.CreateInstructor)
	admin.PUT("/instructors/:id/courses", catalogHandler.SetInstructorCourses)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

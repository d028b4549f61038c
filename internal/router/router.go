package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/config"
	"github.com/stemsi/exam-portal/internal/handler"
	"github.com/stemsi/exam-portal/internal/middleware"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/response"
	"github.com/stemsi/exam-portal/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Teacher *handler.TeacherHandler
	Student *handler.StudentHandler
	Live    *handler.LiveHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── 1. Auth (public, login rate limited per IP) ───────────────────
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, time.Minute)

	router.GET("/login", handlers.Auth.LoginPage)
	router.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
	router.GET("/logout", handlers.Auth.Logout)
	router.POST("/logout", handlers.Auth.Logout)

	authenticated := []gin.HandlerFunc{
		middleware.RequireAuth(authService, cfg.CookieName),
		middleware.CheckSingleSession(authService, log),
	}

	// ─── 2. Teacher pages ──────────────────────────────────────────────
	teacher := router.Group("/teacher")
	teacher.Use(authenticated...)
	teacher.Use(middleware.RequireRole(model.RoleTeacher))
	{
		teacher.GET("/", handlers.Teacher.Dashboard)
		teacher.GET("/create/", handlers.Teacher.CreateExamForm)
		teacher.POST("/create/", handlers.Teacher.CreateExam)
		teacher.GET("/exam/:id/", handlers.Teacher.ExamDetail)
		teacher.POST("/exam/:id/", handlers.Teacher.AddQuestion)
		teacher.GET("/exam/:id/results/", handlers.Teacher.ExamResults)
		teacher.GET("/exam/:id/results/export", handlers.Teacher.ExportResults)
		teacher.GET("/exam/:id/live", handlers.Live.WatchResults)
		teacher.GET("/students/", handlers.Teacher.Students)
	}

	// ─── 3. Student pages ──────────────────────────────────────────────
	student := router.Group("/student")
	student.Use(authenticated...)
	student.Use(middleware.RequireRole(model.RoleStudent))
	{
		student.GET("/", handlers.Student.Dashboard)
		student.GET("/history/", handlers.Student.History)

		// Exam pages must never be served from a cache after submission.
		exam := student.Group("/exam/:id", middleware.NoStore())
		exam.GET("/", handlers.Student.TakeExam)
		exam.POST("/", handlers.Student.SubmitExam)
	}

	return router
}

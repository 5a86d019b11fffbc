package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/handler"
	"github.com/Osuolale-Olalekan/CBT-app/internal/middleware"
	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Session    *handler.SessionHandler
	Submission *handler.SubmissionHandler
	Result     *handler.ResultHandler
	Exam       *handler.ExamHandler
	Question   *handler.QuestionHandler
	Report     *handler.ReportHandler
	User       *handler.UserHandler
	Monitor    *handler.MonitorHandler
}

// Setup builds the Gin engine with all routes and middleware mounted.
func Setup(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())
	r.Use(corsMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(30, 10)

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("/auth")
		public.Use(authLimiter.Middleware())
		{
			public.POST("/register", h.Auth.Register)
			public.POST("/login", h.Auth.Login)
			public.POST("/logout", h.Auth.Logout)
		}

		authed := v1.Group("")
		authed.Use(auth.RequireAuth())
		{
			authed.GET("/auth/me", h.Auth.Me)

			student := authed.Group("")
			student.Use(auth.RequireStudent())
			{
				student.GET("/exams", h.Exam.ListForStudent)
				student.GET("/exams/:exam_id/paper", h.Exam.GetPaper)

				student.POST("/sessions/:exam_id", h.Session.Start)
				student.GET("/sessions/:exam_id", h.Session.Get)
				student.POST("/sessions/:exam_id/autosave", h.Session.Autosave)

				student.POST("/submissions", h.Submission.Submit)
				student.GET("/results", h.Result.ListMine)
			}

			// Result detail is shared: owners and admins.
			authed.GET("/results/:result_id", h.Result.Get)

			admin := authed.Group("/admin")
			admin.Use(auth.RequireAdmin())
			{
				admin.GET("/dashboard", h.Report.Dashboard)

				admin.GET("/questions", h.Question.List)
				admin.POST("/questions", h.Question.Create)
				admin.POST("/questions/import", h.Question.Import)
				admin.GET("/questions/:question_id", h.Question.Get)
				admin.PUT("/questions/:question_id", h.Question.Update)
				admin.DELETE("/questions/:question_id", h.Question.Delete)

				admin.GET("/exams", h.Exam.List)
				admin.POST("/exams", h.Exam.Create)
				admin.GET("/exams/:exam_id", h.Exam.Get)
				admin.PUT("/exams/:exam_id", h.Exam.Update)
				admin.PATCH("/exams/:exam_id/activate", h.Exam.SetActive)
				admin.DELETE("/exams/:exam_id", h.Exam.Delete)

				admin.GET("/exams/:exam_id/results", h.Result.ListByExam)
				admin.GET("/exams/:exam_id/results/export", h.Report.ExportResults)
				admin.GET("/exams/:exam_id/stats", h.Report.ExamStats)

				admin.GET("/users", h.User.List)
				admin.GET("/users/:user_id", h.User.Get)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.DELETE("/users/:user_id", h.User.Delete)
			}
		}
	}

	ws := r.Group("/ws/v1")
	ws.Use(auth.RequireAuth(), auth.RequireAdmin())
	{
		ws.GET("/exams/:exam_id/monitor", h.Monitor.Monitor)
	}

	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsConfig)
}

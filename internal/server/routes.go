// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/sudais391/hirezy-project/internal/auth"
	"github.com/sudais391/hirezy-project/internal/controller/admin"
	"github.com/sudais391/hirezy-project/internal/controller/applicant"
	"github.com/sudais391/hirezy-project/internal/controller/chat"
	"github.com/sudais391/hirezy-project/internal/controller/cv"
	"github.com/sudais391/hirezy-project/internal/controller/hr"
	"github.com/sudais391/hirezy-project/internal/middleware"
	"github.com/sudais391/hirezy-project/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	applicantCtrl := applicant.NewApplicantController(s.DB)
	cvCtrl := cv.NewCVController(s.DB, s.AI)
	hrCtrl := hr.NewHRController(s.DB)
	adminCtrl := admin.NewAdminController(s.DB)
	chatCtrl := chat.NewChatController(s.DB, s.AI)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("register", lAuth.RegisterHandler)
			authRoute.GET("availability", lAuth.AvailabilityHandler)
		}

		needAuth := v1.Group("")
		{
			// RequireAuth runs first so the limiter keys on the user id
			// instead of the client IP.
			needAuth.Use(middleware.RequireAuth(s.DB))
			needAuth.Use(middleware.EnvRateLimitMiddleware())

			userRoute := needAuth.Group("/user")
			{
				userRoute.Use(middleware.CheckRole(model.RoleUser))
				userRoute.GET("profile", applicantCtrl.ProfileHandler)
				userRoute.PATCH("profile", applicantCtrl.UpdateProfileHandler)
				userRoute.GET("jobs", applicantCtrl.AvailableJobsHandler)
				userRoute.POST("jobs/:id/apply", applicantCtrl.ApplyHandler)
				userRoute.GET("applications", applicantCtrl.AppliedJobsHandler)
				userRoute.GET("messages", applicantCtrl.MessagesHandler)

				userRoute.POST("cv", middleware.SizeLimit(10<<20), cvCtrl.UploadHandler)
				userRoute.GET("cv", cvCtrl.ListHandler)
				userRoute.GET("cv/:id", cvCtrl.DownloadHandler)
				userRoute.DELETE("cv/:id", cvCtrl.DeleteHandler)
				userRoute.POST("cv/:id/chat", chatCtrl.AskHandler)
			}

			hrRoute := needAuth.Group("/hr")
			{
				hrRoute.Use(middleware.CheckRole(model.RoleHR))
				hrRoute.GET("profile", hrCtrl.ProfileHandler)
				hrRoute.PATCH("profile", hrCtrl.UpdateProfileHandler)
				hrRoute.POST("jobs", hrCtrl.CreateJobHandler)
				hrRoute.GET("jobs", hrCtrl.MyJobsHandler)
				hrRoute.DELETE("jobs/:id", hrCtrl.DeleteJobHandler)
				hrRoute.GET("jobs/:id/resumes", hrCtrl.ResumesHandler)
				hrRoute.GET("jobs/:id/resumes/selected", hrCtrl.SelectedResumesHandler)
				hrRoute.GET("jobs/:id/resumes/archive", hrCtrl.ArchiveHandler)
				hrRoute.GET("jobs/:id/resumes/match", hrCtrl.MatchHandler)
				hrRoute.PUT("resumes/:id/evaluate", hrCtrl.EvaluateHandler)
				hrRoute.GET("resumes/:id/file", hrCtrl.ResumeFileHandler)
				hrRoute.POST("resumes/:id/chat", chatCtrl.AskSubmissionHandler)
				hrRoute.POST("messages", hrCtrl.SendMessageHandler)
			}

			adminRoute := needAuth.Group("/admin")
			{
				adminRoute.Use(middleware.CheckRole(model.RoleAdmin))
				adminRoute.GET("hr/pending", adminCtrl.PendingHRHandler)
				adminRoute.PUT("hr/:id/approve", adminCtrl.ApproveHRHandler)
				adminRoute.DELETE("hr/:id/reject", adminCtrl.RejectHRHandler)
				adminRoute.GET("hr", adminCtrl.ListHRHandler)
				adminRoute.GET("users", adminCtrl.ListUsersHandler)
				adminRoute.PATCH("accounts/:id", adminCtrl.UpdateAccountHandler)
				adminRoute.DELETE("accounts/:id", adminCtrl.DeleteAccountHandler)
				adminRoute.GET("statistics/users", adminCtrl.UserStatisticsHandler)
				adminRoute.GET("statistics/hr", adminCtrl.HRStatisticsHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}

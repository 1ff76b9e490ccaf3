package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prep-ease/quiz-service/internal/models"
	"github.com/prep-ease/quiz-service/internal/services"
)

type HandlerManager struct {
	quizHandler        *QuizHandler
	attemptHandler     *AttemptHandler
	performanceHandler *PerformanceHandler
	authMiddleware     *JWTAuthMiddleware
	serviceManager     services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, jwtSecret string) *HandlerManager {
	return &HandlerManager{
		quizHandler:        NewQuizHandler(serviceManager.Quiz()),
		attemptHandler:     NewAttemptHandler(serviceManager.Attempt()),
		performanceHandler: NewPerformanceHandler(serviceManager.Performance(), serviceManager.Report()),
		authMiddleware:     NewJWTAuthMiddleware(jwtSecret),
		serviceManager:     serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		quizzes := v1.Group("/quizzes")
		{
			// Authoring - teachers and admins only
			quizzes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.CreateQuiz)
			quizzes.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.UpdateQuiz)
			quizzes.GET("/:id/full", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.GetQuizFull)

			// Taking - all authenticated users
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/attempts", hm.attemptHandler.ListAttempts)
			quizzes.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/:course_id/quizzes", hm.quizHandler.ListCourseQuizzes)
			courses.GET("/:course_id/performance", hm.performanceHandler.GetMyPerformance)

			// Teacher analytics
			courses.GET("/:course_id/performance/roster", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.performanceHandler.GetCourseRoster)
			courses.GET("/:course_id/performance/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.performanceHandler.ExportRoster)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "quiz-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

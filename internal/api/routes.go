package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	programService service.ProgramService,
	generationService service.GenerationService,
	catalogService service.CatalogService,
	recoveryService service.RecoveryService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService, generationService)
	sessionHandler := NewSessionHandler(programService, generationService)
	catalogHandler := NewCatalogHandler(catalogService)
	recoveryHandler := NewRecoveryHandler(recoveryService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Program Routes ---
		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.GET("/:id", programHandler.GetProgram)
			programGroup.POST("/:id/next-microcycle", programHandler.NextMicrocycle)
			programGroup.POST("/:id/export", programHandler.ExportProgram)
		}

		// --- Generation Job Status ---
		protected.GET("/jobs/:jobId", programHandler.GetJob)

		// --- Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("/:id/regenerate", sessionHandler.RegenerateSession)
		}

		// --- Catalog Routes ---
		// Reads are open to everyone; mutations are coach-only.
		catalogGroup := protected.Group("/catalog")
		{
			catalogGroup.GET("/movements", catalogHandler.ListMovements)
			catalogGroup.POST("/movements", RoleMiddleware(domain.RoleCoach), catalogHandler.CreateMovement)
			catalogGroup.GET("/circuits", catalogHandler.ListCircuits)
			catalogGroup.POST("/circuits", RoleMiddleware(domain.RoleCoach), catalogHandler.CreateCircuit)
		}

		// --- Recovery Routes ---
		protected.POST("/recovery", recoveryHandler.LogSignal)
		protected.GET("/deload-check", recoveryHandler.DeloadCheck)
	}
}

// Package mockapi serves the Spotr REST contract over any spotr.Backend,
// normally the JSON mock store, for local development and end-to-end tests.
package mockapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/misfitdev/spotr-mcp/pkg/config"
	"github.com/misfitdev/spotr-mcp/pkg/mockstore"
	"github.com/misfitdev/spotr-mcp/pkg/schema"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// ShareResolver is implemented by backends that can verify share tokens.
type ShareResolver interface {
	ResolveShare(token string) (*mockstore.ShareClaims, error)
}

// NewRouter returns a gin engine exposing backend under /api/v1. When apiKey
// is non-empty every API request must carry it in the X-Spotr-Api-Key header.
func NewRouter(backend spotr.Backend, apiKey string, logger *log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	h := &handler{backend: backend}
	apiV1 := router.Group("/api/v1")
	apiV1.Use(apiKeyMiddleware(apiKey))
	{
		apiV1.GET("/movements", h.listMovements)
		apiV1.GET("/movements/search", h.searchMovements)

		programs := apiV1.Group("/programs")
		{
			programs.GET("", h.listPrograms)
			programs.POST("", h.createProgram)
			programs.GET("/:id", h.getProgram)
			programs.PUT("/:id", h.updateProgram)
			programs.DELETE("/:id", h.deleteProgram)
		}

		blueprints := apiV1.Group("/blueprints")
		{
			blueprints.GET("", h.listBlueprints)
			blueprints.POST("", h.createBlueprint)
			blueprints.GET("/:id", h.getBlueprint)
			blueprints.POST("/:id/programs", h.createProgramFromBlueprint)
		}

		apiV1.GET("/coaches/:id", h.getCoach)
		apiV1.GET("/coaches/:id/style", h.getCoachStyle)
		apiV1.GET("/clients/:id", h.getClient)
		apiV1.GET("/clients/:id/programs/:programId/progress", h.getClientProgress)
		apiV1.POST("/clients/:id/programs/:programId/analyses", h.createAnalysis)
		apiV1.GET("/analyses/:id", h.getAnalysis)

		apiV1.POST("/evaluations", h.createEvaluation)
		apiV1.GET("/evaluations/:id", h.getEvaluation)

		apiV1.POST("/share", h.createShareLink)
		if resolver, ok := backend.(ShareResolver); ok {
			apiV1.GET("/share/:token", resolveShare(resolver))
		}
	}
	return router
}

func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		got := c.GetHeader(config.APIKeyHeader)
		if got == "" {
			abortWithError(c, http.StatusUnauthorized, config.APIKeyHeader+" header is missing")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			abortWithError(c, http.StatusForbidden, "invalid API key")
			return
		}
		c.Next()
	}
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps backend errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var vErr *schema.ValidationError
	var backendErr *spotr.BackendError
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
	case spotr.IsNotFound(err):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &backendErr) && backendErr.StatusCode >= http.StatusBadRequest:
		abortWithError(c, backendErr.StatusCode, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}

func resolveShare(resolver ShareResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolver.ResolveShare(c.Param("token"))
		if err != nil {
			abortWithError(c, http.StatusGone, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"entity_type": claims.EntityType,
			"entity_id":   claims.EntityID,
			"access_code": claims.AccessCode,
			"expires_at":  claims.ExpiresAt.Time.Format(time.RFC3339),
		})
	}
}

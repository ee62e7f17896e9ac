package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/travelbridge/internal/handlers"
	"github.com/01moynul/travelbridge/internal/logger"
	"github.com/01moynul/travelbridge/internal/middleware"
)

// Options configures the router.
type Options struct {
	AllowedOrigin string
	JWTSecret     []byte
	Log           zerolog.Logger
}

// CORSMiddleware tells the browser that the admin frontend may call us.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Strictly allow ONLY the configured frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Vary", "Origin")

		// 2. Allow standard security credentials
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Allow the headers we actually use (specifically "Authorization" for JWT tokens)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")

		// 4. Allow the HTTP methods we use in our API
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		// 5. Handle the "Preflight" OPTIONS request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// --- APPLY THE CORS GUARD ---
	// This must run before anything that can reject the request
	router.Use(CORSMiddleware(opts.AllowedOrigin))
	router.Use(middleware.RequestID())
	router.Use(logger.GinMiddleware(opts.Log))

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Admin Routes (Login Required, admin checked per operation) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(opts.JWTSecret))
		{
			admin.GET("/verification/queue", h.GetVerificationQueue)

			admin.POST("/accounts/:type/:id/approve", h.ApproveAccount)
			admin.POST("/accounts/:type/:id/status", h.UpdateAccountStatus)
			admin.POST("/accounts/:type/:id/resend-invite", h.ResendInvite)

			admin.POST("/suppliers/:id/reject", h.RejectSupplier)
		}
	}

	return router
}

package service

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// RouterOptions configures the middleware chain of the HTTP router.
type RouterOptions struct {
	// ServiceName names the server spans.
	ServiceName string

	// RequestLogging turns the per-request log line on or off.
	RequestLogging bool

	// AllowOrigins lists the origins allowed by CORS. An empty list or "*" allows all origins.
	AllowOrigins []string

	Logger *zap.Logger
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.AllowOrigins))
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(requestID())
	if opts.RequestLogging && opts.Logger != nil {
		router.Use(requestLogger(opts.Logger))
	}

	router.GET("/", h.welcome)
	contacts := router.Group("/api/v1/contacts")
	{
		contacts.GET("", h.findContacts)
		contacts.POST("", h.createContact)
		contacts.GET("/:id", h.findContactByID)
		contacts.PUT("/:id", h.updateContactByID)
		contacts.DELETE("/:id", h.deleteContactByID)
	}
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With", headerRequestID}
	cfg.ExposeHeaders = []string{headerRequestID}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

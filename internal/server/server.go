package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"frangapp/internal/application"
	"frangapp/internal/auth"
	"frangapp/internal/config"
	"frangapp/internal/deposit"
	"frangapp/internal/email"
	"frangapp/internal/locale"
	"frangapp/internal/plan"
	"frangapp/internal/settings"
	"frangapp/internal/user"

	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP entry points mounted by New.
type Handlers struct {
	User          *user.Handler
	Plan          *plan.Handler
	Application   *application.Handler
	Deposit       *deposit.Handler
	Configuration *locale.Handler
	Settings      *settings.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, catalog *locale.Catalog, h Handlers, emailService *email.Service, health HealthCheck) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(locale.Middleware(catalog))

	router.GET("/health", Health(health))
	router.GET("/metrics", Metrics())
	router.GET("/configuration", h.Configuration.GetConfiguration)

	public := router.Group("/auth")
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)
		protected.GET("/plans", h.Plan.List)
		protected.GET("/apps", h.Application.ListMy)
		protected.GET("/apps/:uid/transactions", h.Deposit.ListTransactions)
		protected.POST("/deposit/:uid/:plan_id",
			RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
			h.Deposit.Deposit,
		)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.PUT("/settings/:key", h.Settings.Update)
		if emailService != nil {
			admin.POST("/test-email", TestEmail(emailService))
		}
	}

	return &Server{router: router}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package server

import (
	"context"
	"net/http"

	"servimarket/internal/auth"
	"servimarket/internal/chat"
	"servimarket/internal/config"
	"servimarket/internal/email"
	"servimarket/internal/notification"
	"servimarket/internal/payment"
	"servimarket/internal/presence"
	"servimarket/internal/review"
	"servimarket/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router   *gin.Engine
	httpSrv  *http.Server
	db       *sqlx.DB
	config   *config.Config
	email    *email.Service
	presence *presence.Registry
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, registry *presence.Registry) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	dispatcher := notification.NewDispatcher(notification.NewRepository(db), registry)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	paymentHandler := payment.NewHandler(payment.NewService(
		payment.NewRepository(db),
		payment.NewStaticRateProvider(cfg.ExchangeRateQZ),
		dispatcher,
		userRepo,
		emailService,
	))
	notificationHandler := notification.NewHandler(dispatcher)
	chatHandler := chat.NewHandler(chat.NewService(chat.NewRepository(db), userRepo, dispatcher, registry, emailService))
	reviewHandler := review.NewHandler(db)
	// Stream tokens are the same access tokens the middleware verifies.
	streamHandler := presence.NewHandler(registry, cfg.JWTSecret)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/payments/purchase", paymentHandler.Purchase)
		protected.GET("/payments/transactions", paymentHandler.ListTransactions)
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread", notificationHandler.GetUnreadCount)
		protected.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PATCH("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.POST("/conversations/:id/messages", chatHandler.SendMessage)
		protected.GET("/conversations/:id/messages", chatHandler.ListMessages)
		protected.POST("/reviews", reviewHandler.Create)
		protected.GET("/providers/:providerID/reviews", reviewHandler.ListByProvider)
	}

	// Provider callback; authenticated by its reference, not a user token.
	router.POST("/payments/mock-confirm", paymentHandler.MockConfirm)

	// EventSource cannot set headers, so the stream authenticates via ?token=.
	router.GET("/stream", streamHandler.Stream)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router:   router,
		db:       db,
		config:   cfg,
		email:    emailService,
		presence: registry,
	}
}

func (s *Server) Start(port string) error {
	s.httpSrv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

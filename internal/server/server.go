package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"arenabook/internal/arena"
	"arenabook/internal/auth"
	"arenabook/internal/booking"
	"arenabook/internal/notification"
	"arenabook/internal/payment"
	"arenabook/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the domain handlers the router mounts.
type Handlers struct {
	User         *user.Handler
	Arena        *arena.Handler
	Booking      *booking.Handler
	Payment      *payment.Handler
	Notification *notification.Handler
	Health       gin.HandlerFunc
}

type Options struct {
	Tokens         *auth.Issuer
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(h Handlers, opts Options) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	if opts.RateLimitRPS > 0 {
		router.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	router.GET("/health", h.Health)
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(opts.Tokens)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)

		protected.GET("/arenas", h.Arena.ListArenas)
		protected.GET("/arenas/:arenaID", h.Arena.GetArena)
		protected.GET("/arenas/:arenaID/working-hours", h.Arena.ListWorkingHours)
		protected.GET("/arenas/:arenaID/prices", h.Arena.ListPrices)
		protected.GET("/arenas/:arenaID/free-intervals", h.Booking.FreeIntervals)
		protected.GET("/arenas/:arenaID/slots", h.Booking.Slots)
		protected.GET("/arenas/:arenaID/calendar", h.Booking.Calendar)

		protected.POST("/bookings", h.Booking.Create)
		protected.GET("/bookings", h.Booking.ListMine)
		protected.GET("/bookings/:bookingID", h.Booking.Get)
		protected.POST("/bookings/:bookingID/cancel", h.Booking.Cancel)
		protected.POST("/bookings/:bookingID/payments", h.Payment.Create)
		protected.GET("/payments", h.Payment.List)

		protected.GET("/notifications", h.Notification.List)
		protected.POST("/notifications/:notificationID/read", h.Notification.MarkRead)
	}

	// Owners manage their own arenas; the handler checks ownership.
	arenaAdmin := router.Group("/admin/arenas")
	arenaAdmin.Use(authMiddleware, auth.RequireRole("admin", "owner"))
	{
		arenaAdmin.POST("", h.Arena.CreateArena)
		arenaAdmin.PUT("/:arenaID/working-hours/:day", h.Arena.SetWorkingHours)
		arenaAdmin.DELETE("/:arenaID/working-hours/:day", h.Arena.DeleteWorkingHours)
		arenaAdmin.PUT("/:arenaID/prices/:dayType", h.Arena.SetPrice)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.GET("/bookings", h.Booking.ListForArena)
		admin.POST("/bookings/:bookingID/approve", h.Booking.Approve)
		admin.POST("/bookings/:bookingID/reject", h.Booking.Reject)

		admin.POST("/payments/:paymentID/mark-paid", h.Payment.MarkPaid)
		admin.POST("/payments/:paymentID/mark-failed", h.Payment.MarkFailed)
		admin.POST("/payments/:paymentID/refund", h.Payment.Refund)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http.Addr = ":" + port
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

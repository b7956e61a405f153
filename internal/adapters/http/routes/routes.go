package routes

import (
	"time"

	"memberhub/internal/adapters/http/handlers"
	"memberhub/internal/adapters/http/middleware"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/adapters/storage"
	"memberhub/internal/config"
	"memberhub/internal/core/services"
	"memberhub/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, fileStore storage.Store, m *metrics.Registry) {
	// Initialize repositories
	store := repositories.NewStore(db)

	// Initialize services
	authService := services.NewAuthService(store.Users, store.RefreshTokens, cfg)
	userService := services.NewUserService(store.Users, store.RefreshTokens)
	memberService := services.NewMemberService(store, services.NewQRCodeService(), m)
	zoneService := services.NewZoneService(store)
	eventService := services.NewEventService(store, m)
	paymentService := services.NewPaymentService(store, m)
	notificationService := services.NewNotificationService(store)
	reportService := services.NewReportService(db)
	uploadService := services.NewUploadService(fileStore, m)

	// Initialize handlers
	h := &routeHandlers{
		health:       handlers.NewHealthHandler(db, cfg.AppMode),
		auth:         handlers.NewAuthHandler(authService, cfg),
		user:         handlers.NewUserHandler(userService),
		member:       handlers.NewMemberHandler(memberService, paymentService, eventService, notificationService),
		zone:         handlers.NewZoneHandler(zoneService),
		event:        handlers.NewEventHandler(eventService),
		payment:      handlers.NewPaymentHandler(paymentService, uploadService),
		notification: handlers.NewNotificationHandler(notificationService, memberService),
		report:       handlers.NewReportHandler(reportService),
	}

	// Health check & root routes
	app.Get("/", h.health.Root)
	app.Get("/health", h.health.HealthCheck)

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored uploads are served directly
	if local, ok := fileStore.(*storage.LocalStore); ok {
		app.Use(cfg.Storage.LocalURL, middleware.PublicCache(24*time.Hour))
		app.Static(cfg.Storage.LocalURL, local.Root())
	}

	// API v1 group
	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	setupAPIV1Routes(apiV1, h, cfg)
}

type routeHandlers struct {
	health       *handlers.HealthHandler
	auth         *handlers.AuthHandler
	user         *handlers.UserHandler
	member       *handlers.MemberHandler
	zone         *handlers.ZoneHandler
	event        *handlers.EventHandler
	payment      *handlers.PaymentHandler
	notification *handlers.NotificationHandler
	report       *handlers.ReportHandler
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *routeHandlers, cfg *config.Config) {
	// API Info
	router.Get("/", h.health.APIInfo)

	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.AdminOnly()

	setupAuthRoutes(router.Group("/auth"), h.auth, auth, cfg)
	setupUserRoutes(router.Group("/users", auth, admin), h.user)
	setupMemberRoutes(router.Group("/members", auth), h.member, admin)
	setupEventRoutes(router.Group("/events", auth), h.event, admin)
	setupPaymentRoutes(router.Group("/payments", auth, admin), h.payment, cfg)
	setupZoneRoutes(router.Group("/zones", auth), h.zone, admin)
	setupNotificationRoutes(router.Group("/notifications", auth), h.notification, admin)
	setupReportRoutes(router.Group("/reports", auth, admin), h.report)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, auth fiber.Handler, cfg *config.Config) {
	// Public routes with the stricter limiter
	router.Post("/register", middleware.AuthRateLimiter(cfg), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(cfg), h.Login)
	router.Post("/refresh", h.RefreshToken)
	router.Post("/logout", h.Logout)

	// Protected routes
	router.Get("/profile", auth, h.Profile)
	router.Put("/password", auth, h.ChangePassword)
	router.Post("/logout-all", auth, h.LogoutAll)
}

// setupUserRoutes configures admin user management routes
func setupUserRoutes(router fiber.Router, h *handlers.UserHandler) {
	router.Get("/", h.ListUsers)
	router.Get("/:id", middleware.ValidateObjectID("id"), h.GetUser)
	router.Put("/:id", middleware.ValidateObjectID("id"), h.UpdateUser)
}

// setupMemberRoutes configures member routes. Static paths are registered
// before /:id.
func setupMemberRoutes(router fiber.Router, h *handlers.MemberHandler, admin fiber.Handler) {
	// Self-service
	me := router.Group("/me", middleware.MemberOnly())
	me.Get("/", h.GetMyProfile)
	me.Get("/qr-code", h.GetMyQRCode)
	me.Get("/payments", h.GetMyPayments)
	me.Get("/events", h.GetMyEvents)
	me.Get("/notifications", h.GetMyNotifications)

	// Admin
	router.Post("/", admin, h.CreateMember)
	router.Get("/", admin, h.GetAllMembers)
	router.Get("/search", admin, h.SearchMembers)
	router.Get("/expiring-soon", admin, h.GetExpiringSoon)
	router.Get("/stats", admin, h.GetMemberStats)
	router.Post("/update-expired", admin, h.UpdateExpiredMembers)

	id := middleware.ValidateObjectID("id")
	router.Get("/:id", admin, id, h.GetMember)
	router.Put("/:id", admin, id, h.UpdateMember)
	router.Delete("/:id", admin, id, h.DisableMember)
	router.Post("/:id/renew", admin, id, h.RenewMembership)
	router.Put("/:id/extend", admin, id, h.ExtendMembership)
	router.Get("/:id/qr-code", admin, id, h.GetMemberQRCode)
}

// setupEventRoutes configures event routes
func setupEventRoutes(router fiber.Router, h *handlers.EventHandler, admin fiber.Handler) {
	id := middleware.ValidateObjectID("id")

	// Any authenticated user
	router.Get("/", h.GetAllEvents)
	router.Get("/upcoming", h.GetUpcomingEvents)
	router.Get("/:id", id, h.GetEvent)

	// Admin
	router.Post("/", admin, h.CreateEvent)
	router.Put("/:id", admin, id, h.UpdateEvent)
	router.Delete("/:id", admin, id, h.DeleteEvent)
	router.Post("/:id/register", admin, id, h.RegisterMember)
	router.Delete("/:id/register/:memberId", admin, middleware.ValidateObjectID("id", "memberId"), h.UnregisterMember)
	router.Patch("/:id/attendance", admin, id, h.RecordAttendance)
	router.Get("/:id/attendees", admin, id, h.GetEventAttendees)
}

// setupPaymentRoutes configures payment routes (Admin only)
func setupPaymentRoutes(router fiber.Router, h *handlers.PaymentHandler, cfg *config.Config) {
	id := middleware.ValidateObjectID("id")

	router.Post("/", h.CreatePayment)
	router.Get("/", h.GetAllPayments)
	router.Get("/event/:eventId", middleware.ValidateObjectID("eventId"), h.GetEventPayments)
	router.Get("/member/:memberId", middleware.ValidateObjectID("memberId"), h.GetMemberPayments)
	router.Get("/:id", id, h.GetPayment)
	router.Put("/:id", id, h.UpdatePayment)
	router.Delete("/:id", id, h.DeletePayment)
	router.Post("/:id/receipt", id, middleware.ValidateUpload("receipt", cfg.Upload.MaxFileBytes), h.UploadReceipt)
}

// setupZoneRoutes configures zone routes
func setupZoneRoutes(router fiber.Router, h *handlers.ZoneHandler, admin fiber.Handler) {
	id := middleware.ValidateObjectID("id")

	// Any authenticated user
	router.Get("/", h.GetAllZones)
	router.Get("/search", h.SearchZones)
	router.Get("/:id", id, h.GetZone)

	// Admin
	router.Post("/", admin, h.CreateZone)
	router.Put("/:id", admin, id, h.UpdateZone)
	router.Delete("/:id", admin, id, h.DeleteZone)
	router.Get("/:id/members", admin, id, h.GetZoneMembers)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, h *handlers.NotificationHandler, admin fiber.Handler) {
	id := middleware.ValidateObjectID("id")

	// Any authenticated user; members are limited to their own notifications
	router.Patch("/:id/read", id, h.MarkAsRead)

	// Admin
	router.Post("/", admin, h.CreateNotification)
	router.Get("/", admin, h.GetAllNotifications)
	router.Post("/send-all", admin, h.SendToAllMembers)
	router.Post("/send-members", admin, h.SendToMembers)
	router.Get("/:id", admin, id, h.GetNotification)
	router.Delete("/:id", admin, id, h.DeleteNotification)
}

// setupReportRoutes configures report routes (Admin only)
func setupReportRoutes(router fiber.Router, h *handlers.ReportHandler) {
	router.Get("/dashboard", h.GetDashboard)
	router.Get("/members", h.GetMembershipReport)
	router.Get("/payments", h.GetPaymentReport)
	router.Get("/events", h.GetEventReport)
}

package routes

import (
	"github.com/eichdmk/qrMenu/configs"
	"github.com/eichdmk/qrMenu/controllers"
	"github.com/eichdmk/qrMenu/middlewares"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/eichdmk/qrMenu/services"
	"github.com/eichdmk/qrMenu/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires repositories, services and controllers onto the
// router. Public endpoints come first, then the admin group behind JWT.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, gateway services.PaymentGateway, hub *ws.OrderHub) {
	orderRepo := repository.NewOrderRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	tableRepo := repository.NewTableRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	availability := services.NewAvailabilityService(orderRepo, reservationRepo, cfg.ReservationOrderLookback)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, gateway, cfg.PaymentReturnURL)
	reservationSvc := services.NewReservationService(db, reservationRepo, orderRepo, tableRepo, menuRepo, availability, gateway, cfg.PaymentReturnURL)
	webhookSvc := services.NewWebhookService(db, orderRepo, reservationRepo)
	cleanupSvc := services.NewCleanupService(db, orderRepo)

	orderCtl := controllers.NewOrderController(orderSvc, cleanupSvc, cfg.CleanupMaxAgeDays)
	reservationCtl := controllers.NewReservationController(reservationSvc)
	tableCtl := controllers.NewTableController(db, tableRepo, reservationRepo, availability)
	menuCtl := controllers.NewMenuController(menuRepo)
	categoryCtl := controllers.NewCategoryController(menuRepo)
	paymentCtl := controllers.NewPaymentController(webhookSvc, gateway, cfg.YooKassaShopID, cfg.YooKassaSecretKey)
	authCtl := controllers.NewAuthController(db, cfg.JWTSecret, cfg.JWTTTL)

	api := r.Group("/api")
	{
		api.POST("/auth/login", authCtl.Login)

		api.GET("/menu", menuCtl.List)
		api.GET("/menu/:id", menuCtl.Get)
		api.GET("/categories", categoryCtl.List)
		api.GET("/tables/token/:token", tableCtl.ByToken)

		api.POST("/orders", orderCtl.Create)
		api.GET("/orders/summary/:id", orderCtl.Summary)
		api.POST("/reservations", reservationCtl.Create)

		api.POST("/payments/yookassa/webhook", paymentCtl.Webhook)
		api.GET("/payments/yookassa/payment/:paymentId", paymentCtl.GetPaymentStatus)
	}

	admin := api.Group("")
	admin.Use(middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.GET("/orders", orderCtl.List)
		admin.PUT("/orders/:id", orderCtl.UpdateStatus)
		admin.POST("/orders/cleanup", orderCtl.Cleanup)

		admin.GET("/reservations", reservationCtl.List)
		admin.GET("/reservations/:id", reservationCtl.Get)
		admin.PUT("/reservations/:id", reservationCtl.Update)
		admin.PUT("/reservations/:id/status", reservationCtl.UpdateStatus)
		admin.DELETE("/reservations/:id", reservationCtl.Delete)

		admin.GET("/tables", tableCtl.List)
		admin.POST("/tables", tableCtl.Create)
		admin.PUT("/tables/:id", tableCtl.Update)
		admin.PATCH("/tables/:id/occupancy", tableCtl.SetOccupancy)
		admin.DELETE("/tables/:id", tableCtl.Delete)

		admin.POST("/menu", menuCtl.Create)
		admin.PUT("/menu/:id", menuCtl.Update)
		admin.DELETE("/menu/:id", menuCtl.Delete)
		admin.POST("/categories", categoryCtl.Create)
		admin.PUT("/categories/:id", categoryCtl.Update)
		admin.DELETE("/categories/:id", categoryCtl.Delete)
	}

	// WebSocket upgrades can't carry an Authorization header from browsers,
	// so the stream has its own middleware.
	api.GET("/orders/stream", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)
}

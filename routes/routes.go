package routes

import (
	"cozy-corner-api/handlers"
	"cozy-corner-api/middleware"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Menu browsing (no auth needed)
		public.GET("/menu", handlers.ListMenu)
		public.GET("/menu/:id", handlers.GetMenuItem)

		// Coupon preview
		public.POST("/coupons/validate", handlers.ValidateCoupon)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", handlers.CancelOrder)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/deliveries/available", handlers.GetAvailableDeliveries)
		driver.GET("/deliveries", handlers.GetMyDeliveries)
		driver.PUT("/deliveries/:id/accept", handlers.AcceptDelivery)
		driver.PUT("/deliveries/:id/pickup", handlers.PickupDelivery)
		driver.PUT("/deliveries/:id/start", handlers.StartDeliveryRoute)
		driver.PUT("/deliveries/:id/complete", handlers.CompleteDelivery)
		driver.PUT("/deliveries/:id/fail", handlers.FailDelivery)
		driver.PUT("/deliveries/:id/location", handlers.UpdateDeliveryLocation)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		// Menu management
		admin.GET("/menu", handlers.AdminListMenu)
		admin.POST("/menu", handlers.AddMenuItem)
		admin.PUT("/menu/:id", handlers.UpdateMenuItem)
		admin.DELETE("/menu/:id", handlers.DeleteMenuItem)

		// Order management
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminUpdateOrderStatus)
		admin.PUT("/orders/:id/force-status", handlers.AdminForceOrderStatus)
		admin.GET("/analytics", handlers.AdminGetAnalytics)

		// Payment recording (gateway results)
		admin.PUT("/payments/:id/complete", handlers.CompletePayment)
		admin.PUT("/payments/:id/fail", handlers.FailPayment)
		admin.PUT("/payments/:id/refund", handlers.RefundPayment)

		// Coupon management
		admin.POST("/coupons", handlers.CreateCoupon)
		admin.GET("/coupons", handlers.ListCoupons)
		admin.PUT("/coupons/:id/deactivate", handlers.DeactivateCoupon)

		// User management
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.PUT("/users/:id/deactivate", handlers.AdminDeactivateUser)
	}
}

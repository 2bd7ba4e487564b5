package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
)

func StatsRoutes(app *fiber.App, sc *controllers.StatsController, protect fiber.Handler) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	stats := app.Group("/api/stats", protect, adminOnly)

	stats.Get("/dashboard", sc.GetDashboardStats)
	stats.Get("/recent-activity", sc.GetRecentActivity)
}

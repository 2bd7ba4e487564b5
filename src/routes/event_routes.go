package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
)

func EventRoutes(app *fiber.App, ec *controllers.EventController, protect fiber.Handler) {
	verified := middleware.RequireVerified()
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	event := app.Group("/api/events", protect)

	event.Get("/", ec.GetAllEvents)
	event.Get("/:id", ec.GetEvent)

	event.Post("/", verified, ec.CreateEvent)
	event.Put("/:id", verified, ec.UpdateEvent)
	event.Delete("/:id", verified, ec.DeleteEvent)
	event.Put("/:id/approve", adminOnly, ec.ApproveEvent)

	event.Post("/:id/register", verified, ec.RegisterForEvent)
	event.Put("/:id/cancel", verified, ec.CancelRegistration)
}

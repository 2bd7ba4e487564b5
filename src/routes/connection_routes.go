package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/middleware"
)

func ConnectionRoutes(app *fiber.App, cc *controllers.ConnectionController, protect fiber.Handler) {
	verified := middleware.RequireVerified()

	connection := app.Group("/api/connections", protect)

	// Viewing is allowed even for unverified accounts.
	connection.Get("/", cc.GetConnections)
	connection.Get("/pending", cc.GetPendingRequests)
	connection.Get("/sent", cc.GetSentRequests)
	connection.Get("/mentorship", cc.GetMentorshipConnections)
	connection.Get("/stats", cc.GetConnectionStats)

	// Writes require a verified account.
	connection.Post("/", verified, cc.SendConnectionRequest)
	connection.Put("/:id/accept", verified, cc.AcceptConnection)
	connection.Put("/:id/reject", verified, cc.RejectConnection)
	connection.Put("/:id/mentorship", verified, cc.UpdateMentorshipDetails)
	connection.Delete("/:id", verified, cc.DeleteConnection)
}

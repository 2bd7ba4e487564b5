package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
)

func UserRoutes(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	user := app.Group("/api/users", protect)

	user.Get("/", adminOnly, uc.GetAllUsers)
	user.Get("/:id", uc.GetUser)
	user.Put("/:id", adminOnly, uc.UpdateUser)
	user.Put("/:id/verify", adminOnly, uc.VerifyUser)
	user.Delete("/:id", adminOnly, uc.DeleteUser)
}

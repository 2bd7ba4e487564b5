package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
)

func AuthRoutes(app *fiber.App, ac *controllers.AuthController, protect fiber.Handler) {
	auth := app.Group("/api/auth")

	auth.Post("/register", ac.Register)
	auth.Post("/login", ac.Login)
	auth.Post("/forgotpassword", ac.ForgotPassword)
	auth.Put("/resetpassword/:resetToken", ac.ResetPassword)

	auth.Get("/me", protect, ac.Me)
	auth.Put("/updatedetails", protect, ac.UpdateDetails)
	auth.Put("/updatepassword", protect, ac.UpdatePassword)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
)

func AlumniRoutes(app *fiber.App, al *controllers.AlumniController, protect fiber.Handler) {
	alumni := app.Group("/api/alumni")

	// Public directory routes.
	alumni.Get("/", al.GetAllAlumni)
	alumni.Get("/search", al.SearchAlumni)
	alumni.Get("/stats/overview", al.GetAlumniStats)
	alumni.Get("/branch/:branch", al.GetAlumniByBranch)
	alumni.Get("/company/:company", al.GetAlumniByCompany)
	alumni.Get("/skills/:skills", al.GetAlumniBySkills)
	alumni.Get("/profile/:id", al.GetAlumniProfile)

	alumni.Get("/recommendations", protect, al.GetRecommendations)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
)

func JobRoutes(app *fiber.App, jc *controllers.JobController, protect fiber.Handler) {
	verified := middleware.RequireVerified()
	posters := middleware.RequireRoles(models.RoleAlumni, models.RoleAdmin)

	job := app.Group("/api/jobs", protect)

	job.Get("/", jc.GetAllJobs)
	job.Get("/:id", jc.GetJob)

	job.Post("/", verified, posters, jc.CreateJob)
	job.Put("/:id", verified, jc.UpdateJob)
	job.Delete("/:id", verified, jc.DeleteJob)

	job.Post("/:id/apply", verified, jc.ApplyForJob)
	job.Put("/:id/applications/:userId", verified, jc.UpdateApplicationStatus)
}

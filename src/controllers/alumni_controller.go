package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/repository"
	"github.com/alumnet/alumnet-backend/src/services"
)

type AlumniController struct {
	users repository.UserRepo
	svc   *services.ConnectionService
}

func NewAlumniController(users repository.UserRepo, svc *services.ConnectionService) *AlumniController {
	return &AlumniController{users: users, svc: svc}
}

// GetAllAlumni lists all verified alumni.
func (al *AlumniController) GetAllAlumni(c *fiber.Ctx) error {
	return al.list(c, repository.AlumniQuery{})
}

// GetAlumniByBranch lists verified alumni of a branch.
func (al *AlumniController) GetAlumniByBranch(c *fiber.Ctx) error {
	return al.list(c, repository.AlumniQuery{Branch: c.Params("branch")})
}

// GetAlumniByCompany lists verified alumni at a company.
func (al *AlumniController) GetAlumniByCompany(c *fiber.Ctx) error {
	return al.list(c, repository.AlumniQuery{Company: c.Params("company")})
}

// GetAlumniBySkills lists verified alumni with any of the comma-separated
// skills.
func (al *AlumniController) GetAlumniBySkills(c *fiber.Ctx) error {
	skills := strings.Split(c.Params("skills"), ",")
	return al.list(c, repository.AlumniQuery{Skills: skills})
}

func (al *AlumniController) list(c *fiber.Ctx, q repository.AlumniQuery) error {
	alumni, err := al.users.ListAlumni(c.Context(), q)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(alumni),
		"data":  alumni,
	})
}

// GetAlumniProfile returns a single alumni profile by id.
func (al *AlumniController) GetAlumniProfile(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	user, err := al.users.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	profile := user.PublicProfile()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": profile})
}

// SearchAlumni searches verified alumni by name, bio, company or skills,
// narrowed by optional branch, company and graduationYear filters.
func (al *AlumniController) SearchAlumni(c *fiber.Ctx) error {
	query := c.Query("query")
	filters := repository.AlumniQuery{
		Branch:  c.Query("branch"),
		Company: c.Query("company"),
	}
	if year := c.Query("graduationYear"); year != "" {
		n, err := strconv.Atoi(year)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid graduation year"))
		}
		filters.GraduationYear = n
	}

	alumni, err := al.svc.Search(c.Context(), query, filters)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(alumni),
		"data":  alumni,
	})
}

// GetAlumniStats returns the directory overview: verified alumni total,
// counts per branch and the most common companies.
func (al *AlumniController) GetAlumniStats(c *fiber.Ctx) error {
	overview, err := al.users.AlumniOverview(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": overview})
}

// GetRecommendations suggests alumni for the caller to connect with.
func (al *AlumniController) GetRecommendations(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	limit := int64(c.QueryInt("limit", services.DefaultRecommendLimit))
	recs, err := al.svc.Recommend(c.Context(), user.Id, limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(recs),
		"data":  recs,
	})
}

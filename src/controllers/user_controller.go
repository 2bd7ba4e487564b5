package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

type UserController struct {
	users repository.UserRepo
}

func NewUserController(users repository.UserRepo) *UserController {
	return &UserController{users: users}
}

// GetAllUsers lists every account. Admin only.
func (uc *UserController) GetAllUsers(c *fiber.Ctx) error {
	users, err := uc.users.FindAll(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(users),
		"data":  users,
	})
}

// GetUser returns a single account by id.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	user, err := uc.users.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// UpdateUser lets an admin edit any account, including role and the
// verification flag.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	var req struct {
		Name           *string      `json:"name"`
		Role           *models.Role `json:"role"`
		IsVerified     *bool        `json:"isVerified"`
		Branch         *string      `json:"branch"`
		GraduationYear *int         `json:"graduationYear"`
		CurrentCompany *string      `json:"currentCompany"`
		Designation    *string      `json:"designation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	user, err := uc.users.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleStudent, models.RoleAlumni, models.RoleAdmin:
			user.Role = *req.Role
		default:
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid role"))
		}
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.Branch != nil {
		user.Branch = *req.Branch
	}
	if req.GraduationYear != nil {
		user.GraduationYear = *req.GraduationYear
	}
	if req.CurrentCompany != nil {
		user.CurrentCompany = *req.CurrentCompany
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}

	if err := uc.users.Update(c.Context(), user); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// VerifyUser marks an account as verified. Admin only.
func (uc *UserController) VerifyUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	user, err := uc.users.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	user.IsVerified = true

	if err := uc.users.Update(c.Context(), user); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// DeleteUser removes an account. Admin only.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	if err := uc.users.Delete(c.Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("User deleted successfully"))
}

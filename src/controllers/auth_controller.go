package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/alumnet/alumnet-backend/src/config"
	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

const resetTokenTTL = 10 * time.Minute

type AuthController struct {
	users repository.UserRepo
	cfg   config.Config
}

func NewAuthController(users repository.UserRepo, cfg config.Config) *AuthController {
	return &AuthController{users: users, cfg: cfg}
}

// Register creates a student or alumni account and returns a JWT. Admin
// accounts are seeded out-of-band, never self-registered.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req struct {
		Name           string      `json:"name"`
		Email          string      `json:"email"`
		Password       string      `json:"password"`
		Role           models.Role `json:"role"`
		Branch         string      `json:"branch"`
		GraduationYear int         `json:"graduationYear"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Name, email and password are required"))
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Password must be at least 6 characters"))
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if req.Role != models.RoleStudent && req.Role != models.RoleAlumni {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Role must be student or alumni"))
	}

	hashed, err := lib.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		Role:           req.Role,
		Branch:         req.Branch,
		GraduationYear: req.GraduationYear,
	}
	if _, err := ac.users.Insert(c.Context(), &user); err != nil {
		return errorResponse(c, err)
	}

	return ac.tokenResponse(c, fiber.StatusCreated, &user)
}

// Login authenticates by email and password.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email and password are required"))
	}

	user, err := ac.users.FindByEmail(c.Context(), req.Email)
	if err != nil || !lib.CheckPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid credentials"))
	}

	return ac.tokenResponse(c, fiber.StatusOK, user)
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// UpdateDetails updates the caller's own profile fields.
func (ac *AuthController) UpdateDetails(c *fiber.Ctx) error {
	var req struct {
		Name           *string   `json:"name"`
		Avatar         *string   `json:"avatar"`
		Bio            *string   `json:"bio"`
		Branch         *string   `json:"branch"`
		GraduationYear *int      `json:"graduationYear"`
		CurrentCompany *string   `json:"currentCompany"`
		Designation    *string   `json:"designation"`
		Skills         *[]string `json:"skills"`
		Linkedin       *string   `json:"linkedin"`
		Github         *string   `json:"github"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	user := middleware.CurrentUser(c)
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
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
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.Linkedin != nil {
		user.Linkedin = *req.Linkedin
	}
	if req.Github != nil {
		user.Github = *req.Github
	}

	if err := ac.users.Update(c.Context(), &user); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}

// UpdatePassword changes the caller's password after verifying the
// current one.
func (ac *AuthController) UpdatePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Password must be at least 6 characters"))
	}

	user := middleware.CurrentUser(c)
	if !lib.CheckPassword(user.Password, req.CurrentPassword) {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Password is incorrect"))
	}

	hashed, err := lib.HashPassword(req.NewPassword)
	if err != nil {
		return errorResponse(c, err)
	}
	user.Password = hashed

	if err := ac.users.Update(c.Context(), &user); err != nil {
		return errorResponse(c, err)
	}
	return ac.tokenResponse(c, fiber.StatusOK, &user)
}

// ForgotPassword issues a short-lived reset token. Email delivery is not
// wired here; the token is logged for the operator to relay.
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	user, err := ac.users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	token := uuid.NewString()
	user.ResetPasswordToken = lib.HashResetToken(token)
	user.ResetPasswordExpire = time.Now().Add(resetTokenTTL)

	if err := ac.users.Update(c.Context(), user); err != nil {
		return errorResponse(c, err)
	}

	log.Printf("password reset token issued for %s: %s", user.Email, token)
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Reset token issued"))
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token.
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Password must be at least 6 characters"))
	}

	hashedToken := lib.HashResetToken(c.Params("resetToken"))
	user, err := ac.users.FindByResetToken(c.Context(), hashedToken, time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid or expired token"))
	}

	hashed, err := lib.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	user.Password = hashed
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = time.Time{}

	if err := ac.users.Update(c.Context(), user); err != nil {
		return errorResponse(c, err)
	}
	return ac.tokenResponse(c, fiber.StatusOK, user)
}

func (ac *AuthController) tokenResponse(c *fiber.Ctx, status int, user *models.User) error {
	token, err := lib.GenerateJWT(user.Id.Hex(), ac.cfg.JWTSecret, ac.cfg.JWTExpire)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"data":  user,
	})
}

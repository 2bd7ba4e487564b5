package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

type JobController struct {
	jobs repository.JobRepo
}

func NewJobController(jobs repository.JobRepo) *JobController {
	return &JobController{jobs: jobs}
}

// GetAllJobs lists postings, optionally filtered by jobType, company,
// location and isActive.
func (jc *JobController) GetAllJobs(c *fiber.Ctx) error {
	q := repository.JobQuery{
		JobType:  c.Query("jobType"),
		Company:  c.Query("company"),
		Location: c.Query("location"),
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		q.IsActive = &active
	}

	jobs, err := jc.jobs.List(c.Context(), q)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(jobs),
		"data":  jobs,
	})
}

// GetJob returns a single posting.
func (jc *JobController) GetJob(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid job ID format"))
	}

	job, err := jc.jobs.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": job})
}

// CreateJob posts a new job on behalf of the caller.
func (jc *JobController) CreateJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Title               string    `json:"title"`
		Company             string    `json:"company"`
		Location            string    `json:"location"`
		Description         string    `json:"description"`
		JobType             string    `json:"jobType"`
		ApplicationDeadline time.Time `json:"applicationDeadline"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if req.Title == "" || req.Company == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Title and company are required"))
	}
	if req.ApplicationDeadline.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Application deadline is required"))
	}
	if req.JobType == "" {
		req.JobType = models.DefaultJobType
	}

	job := models.Job{
		Title:               req.Title,
		Company:             req.Company,
		Location:            req.Location,
		Description:         req.Description,
		JobType:             req.JobType,
		ApplicationDeadline: req.ApplicationDeadline,
		Applications:        []models.JobApplication{},
		PostedBy:            user.Id,
		IsActive:            true,
	}
	if _, err := jc.jobs.Insert(c.Context(), &job); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": job})
}

// UpdateJob edits a posting. Only the poster or an admin may edit.
func (jc *JobController) UpdateJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	job, err := jc.ownedJob(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	var req struct {
		Title               *string    `json:"title"`
		Company             *string    `json:"company"`
		Location            *string    `json:"location"`
		Description         *string    `json:"description"`
		JobType             *string    `json:"jobType"`
		ApplicationDeadline *time.Time `json:"applicationDeadline"`
		IsActive            *bool      `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}

	if err := jc.jobs.Update(c.Context(), job); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": job})
}

// DeleteJob removes a posting. Only the poster or an admin may delete.
func (jc *JobController) DeleteJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	job, err := jc.ownedJob(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := jc.jobs.Delete(c.Context(), job.Id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Job deleted successfully"))
}

// ApplyForJob records the caller's application. One application per user
// per posting.
func (jc *JobController) ApplyForJob(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid job ID format"))
	}

	var req struct {
		Resume      string `json:"resume"`
		CoverLetter string `json:"coverLetter"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	job, err := jc.jobs.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	if !job.IsActive || time.Now().After(job.ApplicationDeadline) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("This job is no longer accepting applications"))
	}
	for _, app := range job.Applications {
		if app.User == user.Id {
			return c.Status(fiber.StatusConflict).JSON(lib.MessageResponse("You have already applied for this job"))
		}
	}

	job.Applications = append(job.Applications, models.JobApplication{
		User:        user.Id,
		Resume:      req.Resume,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
		AppliedAt:   time.Now(),
	})

	if err := jc.jobs.Update(c.Context(), job); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lib.MessageResponse("Application submitted successfully"))
}

// UpdateApplicationStatus lets the poster or an admin accept or reject an
// application.
func (jc *JobController) UpdateApplicationStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	job, err := jc.ownedJob(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	applicantID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	var req struct {
		Status models.ApplicationStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if req.Status != models.ApplicationStatusAccepted && req.Status != models.ApplicationStatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Status must be accepted or rejected"))
	}

	updated := false
	for i := range job.Applications {
		if job.Applications[i].User == applicantID {
			job.Applications[i].Status = req.Status
			updated = true
			break
		}
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Application not found"))
	}

	if err := jc.jobs.Update(c.Context(), job); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": job})
}

// ownedJob loads the job in the path and enforces that the caller posted
// it or is an admin.
func (jc *JobController) ownedJob(c *fiber.Ctx, user models.User) (*models.Job, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, fmt.Errorf("invalid job ID format: %w", repository.ErrValidation)
	}

	job, err := jc.jobs.FindByID(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != user.Id && user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to modify this job: %w", repository.ErrForbidden)
	}
	return job, nil
}

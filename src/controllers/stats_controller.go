package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

const recentLimit = 5

type StatsController struct {
	users  repository.UserRepo
	jobs   repository.JobRepo
	events repository.EventRepo
}

func NewStatsController(users repository.UserRepo, jobs repository.JobRepo, events repository.EventRepo) *StatsController {
	return &StatsController{users: users, jobs: jobs, events: events}
}

// GetDashboardStats returns platform-wide totals for the admin dashboard.
func (sc *StatsController) GetDashboardStats(c *fiber.Ctx) error {
	ctx := c.Context()

	totalUsers, err := sc.users.CountAll(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	totalAlumni, err := sc.users.CountByRole(ctx, models.RoleAlumni)
	if err != nil {
		return errorResponse(c, err)
	}
	totalStudents, err := sc.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return errorResponse(c, err)
	}
	totalJobs, err := sc.jobs.CountAll(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	totalEvents, err := sc.events.CountAll(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	pendingVerifications, err := sc.users.CountUnverified(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"totalUsers":           totalUsers,
			"totalAlumni":          totalAlumni,
			"totalStudents":        totalStudents,
			"totalJobs":            totalJobs,
			"totalEvents":          totalEvents,
			"pendingVerifications": pendingVerifications,
		},
	})
}

// GetRecentActivity returns today's registration and posting counts plus
// the most recent users, jobs and events.
func (sc *StatsController) GetRecentActivity(c *fiber.Ctx) error {
	ctx := c.Context()

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	newUsersToday, err := sc.users.CountCreatedSince(ctx, midnight)
	if err != nil {
		return errorResponse(c, err)
	}
	newJobsToday, err := sc.jobs.CountCreatedSince(ctx, midnight)
	if err != nil {
		return errorResponse(c, err)
	}
	pendingEvents, err := sc.events.CountPendingApproval(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	recentUsers, err := sc.users.FindRecent(ctx, recentLimit)
	if err != nil {
		return errorResponse(c, err)
	}
	recentJobs, err := sc.jobs.FindRecent(ctx, recentLimit)
	if err != nil {
		return errorResponse(c, err)
	}
	recentEvents, err := sc.events.FindRecent(ctx, recentLimit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"stats": fiber.Map{
				"newUsersToday": newUsersToday,
				"newJobsToday":  newJobsToday,
				"pendingEvents": pendingEvents,
			},
			"recentUsers":  recentUsers,
			"recentJobs":   recentJobs,
			"recentEvents": recentEvents,
		},
	})
}

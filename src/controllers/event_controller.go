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

type EventController struct {
	events repository.EventRepo
}

func NewEventController(events repository.EventRepo) *EventController {
	return &EventController{events: events}
}

// GetAllEvents lists events. Non-admins only see approved ones.
func (ec *EventController) GetAllEvents(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	approvedOnly := user.Role != models.RoleAdmin

	events, err := ec.events.List(c.Context(), approvedOnly)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(events),
		"data":  events,
	})
}

// GetEvent returns a single event.
func (ec *EventController) GetEvent(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event ID format"))
	}

	event, err := ec.events.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": event})
}

// CreateEvent creates an event. Admin creations are approved immediately;
// everyone else waits for admin approval.
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Title        string           `json:"title"`
		Description  string           `json:"description"`
		EventType    models.EventType `json:"eventType"`
		Location     string           `json:"location"`
		IsVirtual    bool             `json:"isVirtual"`
		MeetingLink  string           `json:"meetingLink"`
		Image        string           `json:"image"`
		MaxAttendees int              `json:"maxAttendees"`
		Tags         []string         `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if req.Title == "" || req.Description == "" || req.Location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Title, description and location are required"))
	}
	if len(req.Title) > models.MaxEventTitleLen {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse(fmt.Sprintf("Title cannot be more than %d characters", models.MaxEventTitleLen)))
	}
	if !models.ValidEventType(req.EventType) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event type"))
	}

	event := models.Event{
		Title:        req.Title,
		Description:  req.Description,
		EventType:    req.EventType,
		Location:     req.Location,
		IsVirtual:    req.IsVirtual,
		MeetingLink:  req.MeetingLink,
		Image:        req.Image,
		MaxAttendees: req.MaxAttendees,
		Attendees:    []models.EventAttendee{},
		CreatedBy:    user.Id,
		IsApproved:   user.Role == models.RoleAdmin,
		Tags:         req.Tags,
	}
	if _, err := ec.events.Insert(c.Context(), &event); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": event})
}

// UpdateEvent edits an event. Only the creator or an admin may edit.
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	event, err := ec.ownedEvent(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	var req struct {
		Title        *string           `json:"title"`
		Description  *string           `json:"description"`
		EventType    *models.EventType `json:"eventType"`
		Location     *string           `json:"location"`
		IsVirtual    *bool             `json:"isVirtual"`
		MeetingLink  *string           `json:"meetingLink"`
		Image        *string           `json:"image"`
		MaxAttendees *int              `json:"maxAttendees"`
		Tags         *[]string         `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	if req.Title != nil {
		if len(*req.Title) > models.MaxEventTitleLen {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse(fmt.Sprintf("Title cannot be more than %d characters", models.MaxEventTitleLen)))
		}
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		if !models.ValidEventType(*req.EventType) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event type"))
		}
		event.EventType = *req.EventType
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.IsVirtual != nil {
		event.IsVirtual = *req.IsVirtual
	}
	if req.MeetingLink != nil {
		event.MeetingLink = *req.MeetingLink
	}
	if req.Image != nil {
		event.Image = *req.Image
	}
	if req.MaxAttendees != nil {
		event.MaxAttendees = *req.MaxAttendees
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}

	if err := ec.events.Update(c.Context(), event); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": event})
}

// DeleteEvent removes an event. Only the creator or an admin may delete.
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	event, err := ec.ownedEvent(c, user)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := ec.events.Delete(c.Context(), event.Id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Event deleted successfully"))
}

// ApproveEvent marks an event as approved. Admin only.
func (ec *EventController) ApproveEvent(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event ID format"))
	}

	event, err := ec.events.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	event.IsApproved = true

	if err := ec.events.Update(c.Context(), event); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": event})
}

// RegisterForEvent adds the caller to the attendee list, honoring the
// capacity limit. A cancelled registration flips back to registered.
func (ec *EventController) RegisterForEvent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event ID format"))
	}

	event, err := ec.events.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	if !event.IsApproved {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Event is not open for registration"))
	}

	for i := range event.Attendees {
		if event.Attendees[i].User == user.Id {
			if event.Attendees[i].Status != models.AttendeeStatusCancelled {
				return c.Status(fiber.StatusConflict).JSON(lib.MessageResponse("You are already registered for this event"))
			}
			if event.MaxAttendees > 0 && event.ActiveAttendees() >= event.MaxAttendees {
				return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Event is full"))
			}
			event.Attendees[i].Status = models.AttendeeStatusRegistered
			event.Attendees[i].RegisteredAt = time.Now()
			if err := ec.events.Update(c.Context(), event); err != nil {
				return errorResponse(c, err)
			}
			return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Registered for event"))
		}
	}

	if event.MaxAttendees > 0 && event.ActiveAttendees() >= event.MaxAttendees {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Event is full"))
	}

	event.Attendees = append(event.Attendees, models.EventAttendee{
		User:         user.Id,
		Status:       models.AttendeeStatusRegistered,
		RegisteredAt: time.Now(),
	})

	if err := ec.events.Update(c.Context(), event); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lib.MessageResponse("Registered for event"))
}

// CancelRegistration marks the caller's registration cancelled.
func (ec *EventController) CancelRegistration(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid event ID format"))
	}

	event, err := ec.events.FindByID(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	for i := range event.Attendees {
		if event.Attendees[i].User == user.Id && event.Attendees[i].Status == models.AttendeeStatusRegistered {
			event.Attendees[i].Status = models.AttendeeStatusCancelled
			if err := ec.events.Update(c.Context(), event); err != nil {
				return errorResponse(c, err)
			}
			return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Registration cancelled"))
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Registration not found"))
}

// ownedEvent loads the event in the path and enforces that the caller
// created it or is an admin.
func (ec *EventController) ownedEvent(c *fiber.Ctx, user models.User) (*models.Event, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", repository.ErrValidation)
	}

	event, err := ec.events.FindByID(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != user.Id && user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to modify this event: %w", repository.ErrForbidden)
	}
	return event, nil
}

package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/services"
)

type ConnectionController struct {
	svc *services.ConnectionService
}

func NewConnectionController(svc *services.ConnectionService) *ConnectionController {
	return &ConnectionController{svc: svc}
}

// GetConnections lists the caller's accepted connections.
func (cc *ConnectionController) GetConnections(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	conns, err := cc.svc.ListAccepted(c.Context(), user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(conns),
		"data":  conns,
	})
}

// GetPendingRequests lists pending requests addressed to the caller.
func (cc *ConnectionController) GetPendingRequests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	conns, err := cc.svc.ListPendingReceived(c.Context(), user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(conns),
		"data":  conns,
	})
}

// GetSentRequests lists pending requests the caller has sent.
func (cc *ConnectionController) GetSentRequests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	conns, err := cc.svc.ListPendingSent(c.Context(), user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(conns),
		"data":  conns,
	})
}

// GetMentorshipConnections lists the caller's accepted mentorships.
func (cc *ConnectionController) GetMentorshipConnections(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	conns, err := cc.svc.ListMentorships(c.Context(), user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": len(conns),
		"data":  conns,
	})
}

// SendConnectionRequest creates a pending request to another user.
func (cc *ConnectionController) SendConnectionRequest(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		RecipientID       string                    `json:"recipientId"`
		Message           string                    `json:"message"`
		MentorshipDetails *services.MentorshipInput `json:"mentorshipDetails"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid recipient ID format"))
	}

	conn, err := cc.svc.SendRequest(c.Context(), user.Id, services.SendRequestInput{
		Recipient:  recipientID,
		Message:    req.Message,
		Mentorship: req.MentorshipDetails,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": conn})
}

// AcceptConnection accepts a pending request addressed to the caller.
func (cc *ConnectionController) AcceptConnection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	conn, err := cc.svc.Accept(c.Context(), id, user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": conn})
}

// RejectConnection rejects a pending request addressed to the caller.
func (cc *ConnectionController) RejectConnection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	conn, err := cc.svc.Reject(c.Context(), id, user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": conn})
}

// DeleteConnection removes a connection the caller participates in.
func (cc *ConnectionController) DeleteConnection(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	if err := cc.svc.Delete(c.Context(), id, user.Id); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection deleted successfully"))
}

// UpdateMentorshipDetails merges a partial mentorship update into a
// mentorship connection the caller participates in.
func (cc *ConnectionController) UpdateMentorshipDetails(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	var patch services.MentorshipPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	conn, err := cc.svc.UpdateMentorship(c.Context(), id, user.Id, patch)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": conn})
}

// GetConnectionStats returns the caller's aggregate connection counts.
func (cc *ConnectionController) GetConnectionStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	stats, err := cc.svc.Stats(c.Context(), user.Id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": stats})
}

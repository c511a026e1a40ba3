package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/schema"
	"github.com/vortisllc/memre-backend/internal/services"
)

type SubscriptionHandler struct {
	subs      *services.SubscriptionService
	lifecycle *services.LifecycleService
}

func NewSubscriptionHandler(subs *services.SubscriptionService, lifecycle *services.LifecycleService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, lifecycle: lifecycle}
}

// Status reports the effective subscription tier for a user.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	userID, err := schema.ParseUserID(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	resp, err := h.subs.Status(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to resolve subscription status",
		})
	}

	return c.JSON(resp)
}

// StatusWithTables bundles the subscription tier with a verification of the
// user's table set, so mobile clients can bootstrap with one request.
func (h *SubscriptionHandler) StatusWithTables(c *fiber.Ctx) error {
	userID, err := schema.ParseUserID(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	status, err := h.subs.Status(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to resolve subscription status",
		})
	}

	verification, err := h.lifecycle.VerifyTables(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to verify tables",
		})
	}

	return c.JSON(dto.SubscriptionWithTablesResponse{
		SubscriptionStatusResponse: *status,
		TablesComplete:             verification.Complete,
		Timestamp:                  time.Now().UTC().Format(time.RFC3339),
	})
}

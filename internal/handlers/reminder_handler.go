package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/schema"
	"github.com/vortisllc/memre-backend/internal/services"
)

type ReminderHandler struct {
	dispatch *services.DispatchService
}

func NewReminderHandler(dispatch *services.DispatchService) *ReminderHandler {
	return &ReminderHandler{dispatch: dispatch}
}

// DueReminders scans the user's reminders, dispatches anything due and
// returns the occurrences. Polling clients use the response to raise screen
// notifications; mail delivery happens server-side as part of the same call.
func (h *ReminderHandler) DueReminders(c *fiber.Ctx) error {
	userID, err := schema.ParseUserID(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	items, err := h.dispatch.ScanAndDispatch(c.UserContext(), userID, time.Now().UTC())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to scan reminders",
		})
	}

	return c.JSON(dto.DueRemindersResponse{
		UserID:    userID,
		Count:     len(items),
		Reminders: items,
	})
}

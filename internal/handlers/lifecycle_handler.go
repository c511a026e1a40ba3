package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/middleware"
	"github.com/vortisllc/memre-backend/internal/schema"
	"github.com/vortisllc/memre-backend/internal/services"
)

// LifecycleHandler exposes registration, table provisioning and the two-step
// account deletion flow.
type LifecycleHandler struct {
	lifecycle   *services.LifecycleService
	authService *services.AuthService
}

func NewLifecycleHandler(lifecycle *services.LifecycleService, authService *services.AuthService) *LifecycleHandler {
	return &LifecycleHandler{lifecycle: lifecycle, authService: authService}
}

// RegisterUser creates the account and provisions its per-user tables in both
// backends in one call.
func (h *LifecycleHandler) RegisterUser(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, report, err := h.lifecycle.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if user == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		// account exists but provisioning is incomplete
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user_id":        user.ID,
			"username":       user.Username,
			"tables_created": false,
			"provisioning":   report,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterUserResponse{
		UserID:        user.ID,
		Username:      user.Username,
		TablesCreated: report.OK(),
	})
}

// EnsureTables re-runs idempotent table provisioning for a user and reports
// the resulting state of both backends.
func (h *LifecycleHandler) EnsureTables(c *fiber.Ctx) error {
	userID, err := schema.ParseUserID(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	report, verification, err := h.lifecycle.EnsureTables(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to ensure tables",
		})
	}

	return c.JSON(fiber.Map{
		"provisioning": report,
		"verification": verification,
		"complete":     verification.Complete,
	})
}

// VerifyTables reports schema completeness for any user without touching the
// tables. Admin-only support surface.
func (h *LifecycleHandler) VerifyTables(c *fiber.Ctx) error {
	userID, err := schema.ParseUserID(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	verification, err := h.lifecycle.VerifyTables(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to verify tables",
		})
	}

	return c.JSON(verification)
}

// DeleteAccount starts the deletion flow for the authenticated user. The
// password is re-checked even though the request already carries a valid
// token.
func (h *LifecycleHandler) DeleteAccount(c *fiber.Ctx) error {
	sub, ok := middleware.TokenUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	userID, err := schema.ParseUserID(sub)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Password is required",
		})
	}
	if err := h.authService.VerifyPassword(userID, req.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Incorrect password. Please try again.",
		})
	}

	resp, err := h.lifecycle.RequestDeletion(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create deletion request",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// DeletionStatus reports the state of a deletion request. The endpoint is
// public: the request id is an unguessable capability mailed to the account
// owner.
func (h *LifecycleHandler) DeletionStatus(c *fiber.Ctx) error {
	requestID := c.Params("request_id")

	resp, err := h.lifecycle.DeletionStatus(requestID)
	if err != nil {
		if errors.Is(err, services.ErrDeletionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Deletion request not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to resolve deletion request",
		})
	}

	return c.JSON(resp)
}

// ConfirmDeletion executes a pending deletion request.
func (h *LifecycleHandler) ConfirmDeletion(c *fiber.Ctx) error {
	requestID := c.Params("request_id")

	report, err := h.lifecycle.ConfirmDeletion(c.UserContext(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeletionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Deletion request not found",
			})
		case errors.Is(err, services.ErrDeletionExpired):
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{
				Error: true, Message: "Deletion request expired. Please request deletion again.",
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete account",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
		"report":  report,
	})
}

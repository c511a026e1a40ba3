package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vortisllc/memre-backend/internal/database"
	"github.com/vortisllc/memre-backend/internal/dto"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	legacyStatus := "ok"
	if err := database.PingLegacy(); err != nil {
		legacyStatus = "unhealthy: " + err.Error()
	}
	appStatus := "ok"
	if err := database.PingApp(); err != nil {
		appStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		LegacyDB:  legacyStatus,
		AppDB:     appStatus,
	})
}

package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/memo"
	"github.com/vortisllc/memre-backend/internal/middleware"
	"github.com/vortisllc/memre-backend/internal/schema"
)

// MemoHandler serves the per-user memo CRUD surface. Every route operates on
// the authenticated user's own table set.
type MemoHandler struct {
	repo *memo.Repository
}

func NewMemoHandler(repo *memo.Repository) *MemoHandler {
	return &MemoHandler{repo: repo}
}

func (h *MemoHandler) callerID(c *fiber.Ctx) (uint, error) {
	sub, ok := middleware.TokenUserID(c)
	if !ok {
		return 0, errors.New("unauthorized")
	}
	return schema.ParseUserID(sub)
}

// Save creates or updates a memo. The request is multipart so an attachment
// can ride along; the memo_id field selects update over insert.
func (h *MemoHandler) Save(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var memoID uint
	if raw := c.FormValue("memo_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid memo id",
			})
		}
		memoID = uint(parsed)
	}

	var upload *memo.AttachmentUpload
	if fh, err := c.FormFile("attachment"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to read attachment",
			})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to read attachment",
			})
		}
		upload = &memo.AttachmentUpload{
			MIMEType: fh.Header.Get("Content-Type"),
			FileName: fh.Filename,
			Data:     data,
		}
	}

	id, err := h.repo.SaveMemo(c.UserContext(), userID, memoID,
		c.FormValue("memo_desc"), c.FormValue("memo"), upload)
	if err != nil {
		switch {
		case errors.Is(err, memo.ErrInvalidFileType):
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Error: true, Message: "File type not allowed",
			})
		case errors.Is(err, memo.ErrDescriptionTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, memo.ErrMemoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Memo not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save memo",
		})
	}

	return c.JSON(dto.SaveMemoResponse{MemoID: id})
}

// List returns the caller's memos newest first with reminder and attachment
// summaries.
func (h *MemoHandler) List(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	memos, err := h.repo.ListMemos(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list memos",
		})
	}

	return c.JSON(dto.ListMemosResponse{Memos: memos})
}

// Delete removes a memo and everything hanging off it.
func (h *MemoHandler) Delete(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	memoID, err := strconv.ParseUint(c.Params("memo_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid memo id",
		})
	}

	if err := h.repo.DeleteMemo(c.UserContext(), userID, uint(memoID)); err != nil {
		if errors.Is(err, memo.ErrMemoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Memo not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete memo",
		})
	}

	return c.JSON(fiber.Map{"message": "Memo deleted"})
}

// Attachment streams a memo's attachment payload with its stored MIME type.
func (h *MemoHandler) Attachment(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	memoID, err := strconv.ParseUint(c.Params("memo_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid memo id",
		})
	}

	att, err := h.repo.GetAttachment(c.UserContext(), userID, uint(memoID))
	if err != nil {
		if errors.Is(err, memo.ErrAttachmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Attachment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load attachment",
		})
	}

	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+att.FileName+`"`)
	return c.Send(att.Data)
}

// SaveReminders replaces the reminder set attached to a memo.
func (h *MemoHandler) SaveReminders(c *fiber.Ctx) error {
	userID, err := h.callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	memoID, err := strconv.ParseUint(c.Params("memo_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid memo id",
		})
	}

	var req dto.SaveRemindersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.repo.SaveReminders(c.UserContext(), userID, uint(memoID), req.Reminders); err != nil {
		switch {
		case errors.Is(err, memo.ErrMemoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Memo not found",
			})
		case errors.Is(err, memo.ErrInvalidRepeat):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid repeat type",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save reminders",
		})
	}

	return c.JSON(fiber.Map{"message": "Reminders saved"})
}

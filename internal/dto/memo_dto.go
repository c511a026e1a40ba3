package dto

import "github.com/vortisllc/memre-backend/internal/memo"

type SaveMemoResponse struct {
	MemoID uint `json:"memo_id"`
}

type SaveRemindersRequest struct {
	Reminders []memo.ReminderInput `json:"reminders"`
}

type ListMemosResponse struct {
	Memos []memo.Memo `json:"memos"`
}

type DueReminderItem struct {
	ReminderID uint     `json:"reminder_id"`
	MemoID     uint     `json:"memo_id"`
	MemoDesc   string   `json:"memo_desc"`
	FireAt     string   `json:"fire_at"`
	Emails     []string `json:"emails"`
	Phones     []string `json:"phones"`
	Dispatched bool     `json:"dispatched"`
}

type DueRemindersResponse struct {
	UserID    uint              `json:"user_id"`
	Count     int               `json:"count"`
	Reminders []DueReminderItem `json:"reminders"`
}

package dto

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type DeletionRequestResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	Message   string `json:"message"`
}

type DeletionStatusResponse struct {
	RequestID   string `json:"request_id"`
	Status      string `json:"status"`
	RequestedAt string `json:"requested_at,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type SubscriptionStatusResponse struct {
	UserID        uint   `json:"user_id"`
	Tier          string `json:"tier"`
	PremiumActive bool   `json:"premium_active"`
	IsTrial       bool   `json:"is_trial"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

type SubscriptionWithTablesResponse struct {
	SubscriptionStatusResponse
	TablesComplete bool   `json:"tables_complete"`
	Timestamp      string `json:"timestamp"`
}

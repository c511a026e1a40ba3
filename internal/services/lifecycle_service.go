package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/mailer"
	"github.com/vortisllc/memre-backend/internal/models"
	"github.com/vortisllc/memre-backend/internal/schema"
	"gorm.io/gorm"
)

// Deletion request states stored in user meta.
const (
	DeletionPending   = "pending"
	DeletionConfirmed = "confirmed"
	DeletionExpired   = "expired"
)

var (
	ErrDeletionNotFound = errors.New("deletion request not found")
	ErrDeletionExpired  = errors.New("deletion request expired")
)

// LifecycleService orchestrates account registration, schema provisioning and
// the two-step account deletion flow.
type LifecycleService struct {
	db          *gorm.DB
	cfg         *config.Config
	meta        *MetaStore
	auth        *AuthService
	subs        *SubscriptionService
	provisioner *schema.Provisioner
	verifier    *schema.Verifier
	teardown    *schema.Teardown
	mail        mailer.Mailer
}

func NewLifecycleService(
	db *gorm.DB,
	cfg *config.Config,
	auth *AuthService,
	subs *SubscriptionService,
	provisioner *schema.Provisioner,
	verifier *schema.Verifier,
	teardown *schema.Teardown,
	mail mailer.Mailer,
) *LifecycleService {
	return &LifecycleService{
		db:          db,
		cfg:         cfg,
		meta:        NewMetaStore(db),
		auth:        auth,
		subs:        subs,
		provisioner: provisioner,
		verifier:    verifier,
		teardown:    teardown,
		mail:        mail,
	}
}

// Register creates the account, provisions its table set in both backends and
// seeds the free-trial metadata. A provisioning failure does not roll back
// the account; EnsureTables repairs missing tables on a later call.
func (s *LifecycleService) Register(ctx context.Context, req *dto.RegisterUserRequest) (*models.User, schema.ProvisionReport, error) {
	user, err := s.auth.CreateUser(req)
	if err != nil {
		return nil, schema.ProvisionReport{}, err
	}

	if err := s.meta.Set(user.ID, models.MetaFreeTrial, "yes"); err != nil {
		slog.Error("failed to seed trial meta", "user_id", user.ID, "error", err)
	}
	if err := s.meta.Set(user.ID, models.MetaRegistrationDate, user.CreatedAt.Format(time.RFC3339)); err != nil {
		slog.Error("failed to record registration date", "user_id", user.ID, "error", err)
	}
	if req.Source != "" {
		if err := s.meta.Set(user.ID, models.MetaRegistrationSource, req.Source); err != nil {
			slog.Error("failed to record registration source", "user_id", user.ID, "error", err)
		}
	}

	report, err := s.provisioner.EnsureUserSchema(ctx, user.ID)
	if err != nil {
		return user, report, fmt.Errorf("provision tables: %w", err)
	}
	if !report.OK() {
		slog.Warn("registration completed with partial provisioning", "user_id", user.ID)
	}
	return user, report, nil
}

// EnsureTables re-runs provisioning for an existing user and returns both the
// creation outcomes and the resulting verification view. Idempotent.
func (s *LifecycleService) EnsureTables(ctx context.Context, userID uint) (schema.ProvisionReport, schema.VerificationReport, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return schema.ProvisionReport{}, schema.VerificationReport{}, ErrUserNotFound
	}

	report, err := s.provisioner.EnsureUserSchema(ctx, userID)
	if err != nil {
		return report, schema.VerificationReport{}, err
	}

	verification, err := s.verifier.VerifyUserSchema(ctx, userID)
	if err != nil {
		return report, verification, err
	}
	return report, verification, nil
}

// VerifyTables reports schema completeness without mutating anything.
func (s *LifecycleService) VerifyTables(ctx context.Context, userID uint) (schema.VerificationReport, error) {
	return s.verifier.VerifyUserSchema(ctx, userID)
}

// RequestDeletion starts the two-step deletion flow: a request id with a
// bounded lifetime is recorded and a confirmation link is mailed to the
// account address. Nothing is destroyed until the request is confirmed.
func (s *LifecycleService) RequestDeletion(ctx context.Context, userID uint) (*dto.DeletionRequestResponse, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	requestID := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.DeletionExpiry)

	if err := s.meta.Set(userID, models.MetaDeletionRequestID, requestID); err != nil {
		return nil, fmt.Errorf("record deletion request: %w", err)
	}
	if err := s.meta.Set(userID, models.MetaDeletionRequestDate, now.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("record deletion request date: %w", err)
	}
	if err := s.meta.Set(userID, models.MetaDeletionStatus, DeletionPending); err != nil {
		return nil, fmt.Errorf("record deletion status: %w", err)
	}

	confirmURL := fmt.Sprintf("%s/confirm-deletion/%s", s.cfg.SiteURL, requestID)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received a request to delete your MemrE account and all of its data.\n\n"+
			"To confirm, open this link within %d days:\n%s\n\n"+
			"If you did not request this, you can ignore this message and your account will remain unchanged.\n",
		user.DisplayName, int(s.cfg.DeletionExpiry.Hours()/24), confirmURL)
	if err := s.mail.Send(ctx, []string{user.Email}, "Confirm your MemrE account deletion", body); err != nil {
		slog.Error("failed to send deletion confirmation mail", "user_id", userID, "error", err)
	}

	return &dto.DeletionRequestResponse{
		RequestID: requestID,
		Status:    DeletionPending,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Message:   "Confirmation email sent. The request expires in " + s.cfg.DeletionExpiry.String() + ".",
	}, nil
}

// DeletionStatus resolves a deletion request by its id.
func (s *LifecycleService) DeletionStatus(requestID string) (*dto.DeletionStatusResponse, error) {
	userID, err := s.meta.FindUserByMetaValue(models.MetaDeletionRequestID, requestID)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, ErrDeletionNotFound
	}

	status, err := s.meta.Get(userID, models.MetaDeletionStatus)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeletionStatusResponse{RequestID: requestID, Status: status}

	rawDate, err := s.meta.Get(userID, models.MetaDeletionRequestDate)
	if err != nil {
		return nil, err
	}
	if requestedAt, perr := time.Parse(time.RFC3339, rawDate); perr == nil {
		resp.RequestedAt = requestedAt.Format(time.RFC3339)
		resp.ExpiresAt = requestedAt.Add(s.cfg.DeletionExpiry).Format(time.RFC3339)
		resp.Status = deletionState(status, requestedAt, s.cfg.DeletionExpiry, time.Now())
	}
	return resp, nil
}

// deletionState resolves the effective state of a deletion request. A pending
// request older than its lifetime reads as expired; confirmed and expired
// states are final. The instant requestedAt+lifetime itself still counts as
// pending.
func deletionState(status string, requestedAt time.Time, lifetime time.Duration, now time.Time) string {
	if status == DeletionPending && now.After(requestedAt.Add(lifetime)) {
		return DeletionExpired
	}
	return status
}

// ConfirmDeletion executes a pending deletion request: subscriptions are
// canceled, the per-user tables are exported and dropped in both backends,
// and the account with all its metadata is removed. The backup is
// best-effort; an export failure is reported but never blocks the deletion.
func (s *LifecycleService) ConfirmDeletion(ctx context.Context, requestID string) (*schema.DeletionReport, error) {
	userID, err := s.meta.FindUserByMetaValue(models.MetaDeletionRequestID, requestID)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, ErrDeletionNotFound
	}

	status, err := s.meta.Get(userID, models.MetaDeletionStatus)
	if err != nil {
		return nil, err
	}
	rawDate, err := s.meta.Get(userID, models.MetaDeletionRequestDate)
	if err != nil {
		return nil, err
	}
	if requestedAt, perr := time.Parse(time.RFC3339, rawDate); perr == nil {
		if deletionState(status, requestedAt, s.cfg.DeletionExpiry, time.Now()) == DeletionExpired {
			if err := s.meta.Set(userID, models.MetaDeletionStatus, DeletionExpired); err != nil {
				slog.Error("failed to mark deletion expired", "user_id", userID, "error", err)
			}
			return nil, ErrDeletionExpired
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.subs.CancelAll(userID); err != nil {
		slog.Error("failed to cancel subscriptions", "user_id", userID, "error", err)
	}

	report := s.teardown.DropUserSchema(ctx, userID, user.Username)
	if !report.OK() {
		slog.Error("teardown finished with errors", "user_id", userID, "errors", report.Errors)
	}

	if err := s.auth.RevokeAll(userID); err != nil {
		slog.Error("failed to revoke refresh tokens", "user_id", userID, "error", err)
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.ReminderSent{}).Error; err != nil {
		slog.Error("failed to purge sent markers", "user_id", userID, "error", err)
	}
	if err := s.meta.DeleteAll(userID); err != nil {
		slog.Error("failed to purge user meta", "user_id", userID, "error", err)
	}
	if err := s.db.Unscoped().Delete(&user).Error; err != nil {
		return &report, fmt.Errorf("delete user record: %w", err)
	}

	slog.Info("account deleted", "user_id", userID, "backup_ref", report.BackupRef)
	return &report, nil
}

package logging

import (
	"log/slog"
	"time"

	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that trims system_logs rows older than
// the configured retention window, so the DBHandler's error log does not grow
// without bound on the legacy backend.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected, "cutoff", cutoff)
				}
			case <-done:
				return
			}
		}
	}()
}

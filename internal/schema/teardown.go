package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// BackupStore persists export artifacts before destructive operations. The
// vault package provides filesystem, memory and S3 implementations.
type BackupStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// DeletionReport enumerates what was dropped and what failed. Success means
// every discovered table was dropped; partial failures are listed, not
// swallowed.
type DeletionReport struct {
	UserID        uint     `json:"user_id"`
	TablesDropped int      `json:"tables_deleted"`
	TablesFound   int      `json:"tables_found"`
	Errors        []string `json:"errors"`
	BackupRef     string   `json:"backup_ref,omitempty"`
	BackupError   string   `json:"backup_error,omitempty"`
}

func (r DeletionReport) OK() bool {
	return len(r.Errors) == 0 && r.TablesDropped == r.TablesFound
}

// Teardown drops a user's TableSets from both backends, exporting the legacy
// data first. Backup failure is recorded but never blocks deletion.
type Teardown struct {
	legacy   *gorm.DB
	app      *gorm.DB
	exporter *Exporter
	store    BackupStore
	timeout  time.Duration
}

func NewTeardown(legacy, app *gorm.DB, exporter *Exporter, store BackupStore, timeout time.Duration) *Teardown {
	return &Teardown{legacy: legacy, app: app, exporter: exporter, store: store, timeout: timeout}
}

func (t *Teardown) DropUserSchema(ctx context.Context, userID uint, username string) DeletionReport {
	report := DeletionReport{UserID: userID}

	script, err := t.exporter.ExportUserData(ctx, userID, username)
	if err != nil {
		report.BackupError = err.Error()
		slog.Error("backup export failed, proceeding with deletion", "user_id", userID, "error", err)
	} else if len(script.Tables) == 0 {
		slog.Info("nothing to back up", "user_id", userID)
	} else {
		ref, err := t.store.Put(ctx, script.Filename, script.Body)
		if err != nil {
			report.BackupError = err.Error()
			slog.Error("backup persist failed, proceeding with deletion", "user_id", userID, "error", err)
		} else {
			report.BackupRef = ref
			slog.Info("backup created", "user_id", userID, "ref", ref, "bytes", len(script.Body))
		}
	}

	t.dropBackend(ctx, t.legacy, userID, true, &report)
	t.dropBackend(ctx, t.app, userID, false, &report)

	slog.Info("user schema teardown finished",
		"user_id", userID,
		"dropped", report.TablesDropped,
		"found", report.TablesFound,
		"errors", len(report.Errors))
	return report
}

// dropBackend discovers the user's tables by prefix and drops them. On the
// legacy combined backend cross-table foreign keys can block out-of-order
// drops, so constraint checking is suspended and always restored.
func (t *Teardown) dropBackend(ctx context.Context, db *gorm.DB, userID uint, suspendFK bool, report *DeletionReport) {
	cctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tables, err := ListUserTables(cctx, db, userID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("failed to list tables: %v", err))
		return
	}
	report.TablesFound += len(tables)
	if len(tables) == 0 {
		return
	}

	if suspendFK {
		if err := db.WithContext(cctx).Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to suspend FK checks: %v", err))
		}
		defer func() {
			if err := db.Exec("SET FOREIGN_KEY_CHECKS = 1").Error; err != nil {
				slog.Error("failed to restore FK checks", "user_id", userID, "error", err)
			}
		}()
	} else {
		tables = orderForDrop(userID, tables)
	}

	for _, table := range tables {
		if err := db.WithContext(cctx).Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error; err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to drop %s: %v", table, err))
			slog.Error("failed to drop table", "table", table, "error", err)
			continue
		}
		report.TablesDropped++
	}
}

// orderForDrop sorts discovered tables so referencing tables go first, with
// unknown stragglers appended at the end.
func orderForDrop(userID uint, tables []string) []string {
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t] = true
	}

	ordered := make([]string, 0, len(tables))
	for _, t := range NewTableSet(userID).DropOrder() {
		if known[t] {
			ordered = append(ordered, t)
			known[t] = false
		}
	}
	for _, t := range tables {
		if known[t] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

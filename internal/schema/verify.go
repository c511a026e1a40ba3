package schema

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// VerificationReport describes what exists where. The legacy backend is
// checked table-by-table; the app backend is checked with a name-prefix scan.
type VerificationReport struct {
	UserID        uint            `json:"user_id"`
	LegacyTables  map[string]bool `json:"legacy_tables"`
	LegacyCount   int             `json:"legacy_count"`
	AppTableCount int             `json:"app_table_count"`
	Complete      bool            `json:"complete"`
}

type Verifier struct {
	legacy  *gorm.DB
	app     *gorm.DB
	strict  bool
	timeout time.Duration
}

// NewVerifier builds a verifier. With strict=false the completeness check is
// the permissive legacy heuristic: only the memo table is required, since it
// is the one table user-facing features cannot work without.
func NewVerifier(legacy, app *gorm.DB, strict bool, timeout time.Duration) *Verifier {
	return &Verifier{legacy: legacy, app: app, strict: strict, timeout: timeout}
}

func (v *Verifier) VerifyUserSchema(ctx context.Context, userID uint) (VerificationReport, error) {
	if userID == 0 {
		return VerificationReport{}, ErrInvalidUserID
	}

	cctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	report := VerificationReport{
		UserID:       userID,
		LegacyTables: make(map[string]bool),
	}

	ts := NewTableSet(userID)
	for _, table := range ts.All() {
		exists, err := tableExists(cctx, v.legacy, table)
		if err != nil {
			return report, err
		}
		report.LegacyTables[table] = exists
		if exists {
			report.LegacyCount++
		}
	}

	appTables, err := ListUserTables(cctx, v.app, userID)
	if err != nil {
		return report, err
	}
	report.AppTableCount = len(appTables)

	report.Complete = completePolicy(report.LegacyTables, ts, v.strict)
	return report, nil
}

// completePolicy decides overall completeness from legacy existence flags.
// Permissive mode requires only the memo table; strict mode requires all four.
func completePolicy(legacy map[string]bool, ts TableSet, strict bool) bool {
	if strict {
		for _, table := range ts.All() {
			if !legacy[table] {
				return false
			}
		}
		return true
	}
	return legacy[ts.Memo]
}

func tableExists(ctx context.Context, db *gorm.DB, table string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", table).
		Scan(&count).Error
	return count > 0, err
}

// ListUserTables returns every table in the backend whose name starts with the
// user's prefix. Underscores in the prefix are escaped so LIKE treats them
// literally.
func ListUserTables(ctx context.Context, db *gorm.DB, userID uint) ([]string, error) {
	pattern := strings.ReplaceAll(Prefix(userID), "_", "\\_") + "%"

	var tables []string
	err := db.WithContext(ctx).
		Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name LIKE ?", pattern).
		Scan(&tables).Error
	return tables, err
}

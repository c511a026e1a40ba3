package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Legacy is the combined database that also holds the site's identity
// tables and the original per-user TableSets. App is the dedicated MemrE
// database that carries the newer TableSet replicas. Verification and
// teardown must always consider both.
var (
	Legacy *gorm.DB
	App    *gorm.DB
)

func Connect(cfg *config.Config) error {
	var err error

	Legacy, err = open(cfg.LegacyDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to legacy database: %w", err)
	}

	App, err = open(cfg.AppDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to memre database: %w", err)
	}

	slog.Info("databases connected", "legacy", cfg.LegacyDBName, "app", cfg.AppDBName)
	return nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// MigrateShared runs AutoMigrate for the shared identity and bookkeeping
// tables. Per-user tables are provisioned separately by the schema package.
func MigrateShared() error {
	return Legacy.AutoMigrate(
		&models.User{},
		&models.UserMeta{},
		&models.RefreshToken{},
		&models.Subscription{},
		&models.ReminderSent{},
		&models.SystemLog{},
	)
}

func PingLegacy() error {
	sqlDB, err := Legacy.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func PingApp() error {
	sqlDB, err := App.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

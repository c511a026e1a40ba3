package services

import (
	"errors"

	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetaStore wraps per-user key/value metadata in the legacy database.
type MetaStore struct {
	db *gorm.DB
}

func NewMetaStore(db *gorm.DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the value for a user's meta key, or "" when unset.
func (m *MetaStore) Get(userID uint, key string) (string, error) {
	var meta models.UserMeta
	err := m.db.Where("user_id = ? AND meta_key = ?", userID, key).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return meta.MetaValue, nil
}

// Set upserts a user's meta key.
func (m *MetaStore) Set(userID uint, key, value string) error {
	meta := models.UserMeta{UserID: userID, MetaKey: key, MetaValue: value}
	return m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
}

// Delete removes one meta key for a user.
func (m *MetaStore) Delete(userID uint, key string) error {
	return m.db.Where("user_id = ? AND meta_key = ?", userID, key).
		Delete(&models.UserMeta{}).Error
}

// DeleteAll removes every meta row for a user.
func (m *MetaStore) DeleteAll(userID uint) error {
	return m.db.Where("user_id = ?", userID).Delete(&models.UserMeta{}).Error
}

// FindUserByMetaValue resolves the user holding a given key/value pair.
// Returns 0 when no user matches.
func (m *MetaStore) FindUserByMetaValue(key, value string) (uint, error) {
	var meta models.UserMeta
	err := m.db.Where("meta_key = ? AND meta_value = ?", key, value).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return meta.UserID, nil
}

// ProvisionedUserIDs lists users whose table-name metadata has been recorded,
// i.e. users the sweep worker should scan.
func (m *MetaStore) ProvisionedUserIDs() ([]uint, error) {
	var ids []uint
	err := m.db.Model(&models.UserMeta{}).
		Where("meta_key = ?", models.MetaMemoTable).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// Package repo: MonitoringConfig persistence. At most one row is active at a
// time.
package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// ActivateMonitoringConfig deactivates every active config and inserts a new
// active one for brand, in a single transaction.
func ActivateMonitoringConfig(ctx context.Context, db *gorm.DB, brand string, platforms []string) (*domain.MonitoringConfig, error) {
	cfg := &domain.MonitoringConfig{
		BrandName: brand,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		Platforms: datatypes.JSONSlice[string](append([]string{}, platforms...)),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := deactivateAll(tx); err != nil {
			return err
		}
		return tx.Create(cfg).Error
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeactivateMonitoringConfigs marks every active config inactive and returns
// the number of rows changed.
func DeactivateMonitoringConfigs(ctx context.Context, db *gorm.DB) (int64, error) {
	return deactivateAll(db.WithContext(ctx))
}

// DeactivateMonitoringConfig marks one config inactive. It returns
// ErrNotFound when the id does not exist.
func DeactivateMonitoringConfig(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).
		Model(&domain.MonitoringConfig{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActiveMonitoringConfigs returns active configs, newest first.
func ListActiveMonitoringConfigs(ctx context.Context, db *gorm.DB) ([]domain.MonitoringConfig, error) {
	var out []domain.MonitoringConfig
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		Order("id desc").
		Find(&out).Error
	return out, err
}

func deactivateAll(tx *gorm.DB) (int64, error) {
	res := tx.Model(&domain.MonitoringConfig{}).
		Where("is_active = ?", true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRuntime records an installed runtime, replacing an earlier record of
// the same component.
func (d *DB) SaveRuntime(r *Runtime) error {
	if r == nil || r.Component == "" {
		return ErrEmptyKey
	}
	if r.InstalledAt.IsZero() {
		r.InstalledAt = time.Now()
	}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "component"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "root", "executable", "installed_at", "updated_at"}),
	}).Create(r).Error
	if err != nil {
		return fmt.Errorf("failed to save runtime %s: %w", r.Component, err)
	}
	return nil
}

// GetRuntime returns the runtime for component, or ErrNotFound.
func (d *DB) GetRuntime(component string) (*Runtime, error) {
	var r Runtime
	err := d.db.Where("component = ?", component).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime %s: %w", component, err)
	}
	return &r, nil
}

// ListRuntimes returns every installed runtime ordered by component.
func (d *DB) ListRuntimes() ([]Runtime, error) {
	var rs []Runtime
	if err := d.db.Order("component").Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runtimes: %w", err)
	}
	return rs, nil
}

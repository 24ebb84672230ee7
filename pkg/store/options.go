package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOption returns the stored value for key, or ErrNotFound.
func (d *DB) GetOption(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var opt Option
	err := d.db.Where(&Option{Key: key}).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get option %s: %w", key, err)
	}
	return opt.Value, nil
}

// SetOption creates or replaces the value for key.
func (d *DB) SetOption(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Option{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set option %s: %w", key, err)
	}
	return nil
}

// DeleteOption removes key. Deleting a missing key is not an error.
func (d *DB) DeleteOption(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := d.db.Delete(&Option{Key: key}).Error; err != nil {
		return fmt.Errorf("failed to delete option %s: %w", key, err)
	}
	return nil
}

// ListOptions returns every stored option ordered by key.
func (d *DB) ListOptions() ([]Option, error) {
	var opts []Option
	if err := d.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&opts).Error; err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	return opts, nil
}

package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CreateContainer registers a named container.
func (d *DB) CreateContainer(name, root string) (*Container, error) {
	if name == "" {
		return nil, ErrEmptyKey
	}
	if _, err := d.GetContainer(name); err == nil {
		return nil, fmt.Errorf("%w: container %s", ErrDuplicate, name)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	c := &Container{Name: name, Root: root}
	if err := d.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create container %s: %w", name, err)
	}
	return c, nil
}

// GetContainer returns the container called name, or ErrNotFound.
func (d *DB) GetContainer(name string) (*Container, error) {
	var c Container
	err := d.db.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get container %s: %w", name, err)
	}
	return &c, nil
}

// ListContainers returns every container ordered by name.
func (d *DB) ListContainers() ([]Container, error) {
	var cs []Container
	if err := d.db.Order("name").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return cs, nil
}

// DeleteContainer unregisters name. The directory is left alone.
func (d *DB) DeleteContainer(name string) error {
	res := d.db.Where("name = ?", name).Delete(&Container{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete container %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

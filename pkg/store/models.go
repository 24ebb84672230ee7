package store

import "time"

// Option is one key-value runtime option.
type Option struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// Container is a named game directory.
type Container struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex"`
	Root      string `gorm:"not null"`
	CreatedAt time.Time
}

// Runtime is an installed Java runtime component.
type Runtime struct {
	ID          uint   `gorm:"primaryKey"`
	Component   string `gorm:"not null;uniqueIndex"`
	Version     string
	Root        string `gorm:"not null"`
	Executable  string `gorm:"not null"`
	InstalledAt time.Time
	UpdatedAt   time.Time
}

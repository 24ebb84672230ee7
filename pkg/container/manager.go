package container

import (
	stderrors "errors"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
)

// Registry persists named containers.
type Registry interface {
	CreateContainer(name, root string) (*store.Container, error)
	GetContainer(name string) (*store.Container, error)
	ListContainers() ([]store.Container, error)
	DeleteContainer(name string) error
}

// Manager registers named game directories.
type Manager struct {
	reg Registry
}

// NewManager creates a Manager over reg.
func NewManager(reg Registry) *Manager {
	return &Manager{reg: reg}
}

// Add registers name at root and creates the directory.
func (m *Manager) Add(name, root string) (*Vanilla, error) {
	v, err := NewVanilla(root)
	if err != nil {
		return nil, err
	}
	if _, err := m.reg.CreateContainer(name, v.GameDir()); err != nil {
		if stderrors.Is(err, store.ErrDuplicate) {
			return nil, errors.Wrap(errors.ErrContainerExists, name)
		}
		return nil, err
	}
	if err := fsutil.EnsureDir(v.GameDir()); err != nil {
		return nil, errors.Wrapf(err, "create container directory %s", v.GameDir())
	}
	logger.Info("Container added", logger.Fields{"name": name, "root": v.GameDir()})
	return v, nil
}

// Get returns the resolver for a registered container.
func (m *Manager) Get(name string) (*Vanilla, error) {
	c, err := m.reg.GetContainer(name)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrContainerNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return NewVanilla(c.Root)
}

// List returns every registered container.
func (m *Manager) List() ([]store.Container, error) {
	return m.reg.ListContainers()
}

// Remove unregisters name. Files are kept.
func (m *Manager) Remove(name string) error {
	err := m.reg.DeleteContainer(name)
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.Wrap(errors.ErrContainerNotFound, name)
	}
	return err
}

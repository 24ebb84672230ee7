package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/catalog"
	"github.com/skjsjhb/hyaci-launcher/pkg/config"
	"github.com/skjsjhb/hyaci-launcher/pkg/container"
	"github.com/skjsjhb/hyaci-launcher/pkg/download"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
	"github.com/skjsjhb/hyaci-launcher/pkg/options"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	LogFormat  *string
)

// env bundles the services a command works with. Commands obtain one from
// loadEnv and must Close it.
type env struct {
	cfg        *config.Config
	db         *store.DB
	opts       *options.Options
	dl         *download.Manager
	catalog    *catalog.Client
	containers *container.Manager
}

// loadConfig loads the configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cfg)
	return cfg, nil
}

// loadEnv loads the configuration and opens the option store, the download
// manager and the registries built on top of them.
func loadEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbPath, err := cfg.GetDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	db, err := store.InitDB(store.Config{DatabasePath: dbPath})
	if err != nil {
		return nil, err
	}
	logger.Debug("Database opened", logger.Fields{"path": dbPath})

	opts := options.New(db)
	dl := download.NewManager(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent, download.SettingsFrom(opts), printProgress)
	return &env{
		cfg:        cfg,
		db:         db,
		opts:       opts,
		dl:         dl,
		catalog:    catalog.NewClient(dl),
		containers: container.NewManager(db),
	}, nil
}

// Close releases the database.
func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		logger.Warn("Failed to close database", logger.Fields{"error": err.Error()})
	}
}

// resolveContainer returns the named container. The default container is
// registered under the data directory on first use.
func (e *env) resolveContainer(name string) (*container.Vanilla, error) {
	if name == "" {
		name = DefaultContainer
	}
	v, err := e.containers.Get(name)
	if err == nil || name != DefaultContainer || !stderrors.Is(err, errors.ErrContainerNotFound) {
		return v, err
	}
	games, err := e.cfg.GetGamesDir()
	if err != nil {
		return nil, err
	}
	return e.containers.Add(name, filepath.Join(games, DefaultContainer))
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path fails later with a descriptive error
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// printProgress renders download group progress on the log.
func printProgress(status string, fraction float64) {
	if fraction < 0 {
		logger.Info("Downloading", logger.Fields{"status": status})
		return
	}
	logger.Info("Downloading", logger.Fields{
		"status":   status,
		"progress": fmt.Sprintf("%.1f%%", fraction*100),
	})
}

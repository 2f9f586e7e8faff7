package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/loadout/internal/clock"
	"github.com/danieljhkim/loadout/internal/config"
	"github.com/danieljhkim/loadout/internal/engine"
	"github.com/danieljhkim/loadout/internal/fsops"
	"github.com/danieljhkim/loadout/internal/state"
	"github.com/danieljhkim/loadout/internal/stores"
)

// environment is everything a command needs to run.
type environment struct {
	engine   *engine.Engine
	paths    *config.Paths
	settings *config.Settings
	logger   *log.Logger
}

// newEnvironment creates an engine with real implementations of all
// dependencies, honoring the --root and --log-level flags.
func newEnvironment(cmd *cobra.Command) (*environment, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "loadout",
		Level:  settings.Level(),
	})

	fs := fsops.NewRealFS()
	var layers []stores.AddonRepo
	for _, dir := range paths.AddonDirs(settings) {
		layers = append(layers, stores.NewFileAddonRepo(fs, dir))
	}
	addonRepo := stores.NewLayeredAddonRepo(layers...)
	profileStore := state.NewFileProfileStore(fs, paths.Profiles, settings.DefaultsProfile)

	logger.Debug("environment ready", "root", paths.Root, "addonDirs", len(layers))
	return &environment{
		engine:   engine.New(addonRepo, profileStore, &clock.RealClock{}, engine.WithLogger(logger)),
		paths:    paths,
		settings: settings,
		logger:   logger,
	}, nil
}

func resolvePaths() (*config.Paths, error) {
	if rootDir != "" {
		return config.NewPaths(rootDir), nil
	}
	return config.DefaultPaths()
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

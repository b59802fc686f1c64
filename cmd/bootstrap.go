package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/VoxDroid/launchr/internal/config"
	"github.com/VoxDroid/launchr/internal/host"
	"github.com/VoxDroid/launchr/internal/loader"
	"github.com/VoxDroid/launchr/internal/logging"
	"github.com/VoxDroid/launchr/internal/plugins/applications"
	"github.com/VoxDroid/launchr/internal/plugins/commands"
)

// app is everything a launcher session needs, wired from the configuration.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	flush   func()
	loaded  loader.Result
	router  *host.Router
	pending []host.Pending
}

func (a *app) close() { a.flush() }

func builtins() map[string]loader.Symbols {
	return map[string]loader.Symbols{
		applications.PluginName: applications.Symbols(),
		commands.PluginName:     commands.Symbols(),
	}
}

func loadConfig() (*config.Config, error) {
	return config.NewLoader().
		WithPath(configPath).
		WithPluginDir(pluginDir).
		WithMaxEntries(maxEntries).
		CreateMissing().
		Load()
}

func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	path := cfg.Settings.Log.File
	if path == "" {
		p, err := config.LogPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	return logging.New(logging.Options{
		Level:   cfg.Settings.Log.Level,
		Path:    config.ExpandHome(path),
		Verbose: verbose,
	})
}

// bootstrap loads the configuration, opens the log, loads the allow-listed
// plugins and constructs their models. The returned pending tasks are the
// constructors' follow-up work and have not been started.
func bootstrap() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, flush, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Created {
		log.Info("wrote default configuration", zap.String("path", cfg.Path))
	}
	if err := os.MkdirAll(cfg.Settings.PluginDir, 0o755); err != nil {
		log.Warn("create plugin dir", zap.String("dir", cfg.Settings.PluginDir), zap.Error(err))
	}

	ld := loader.New(cfg.Settings.PluginDir, cfg.Settings.Plugins,
		loader.WithBuiltins(builtins()),
		loader.WithLogger(log),
	)
	res, err := ld.Load()
	if err != nil {
		flush()
		return nil, fmt.Errorf("load plugins: %w", err)
	}
	reg, pending := host.New(res.Loaded, cfg.Doc, log)
	return &app{
		cfg:     cfg,
		log:     log,
		flush:   flush,
		loaded:  res,
		router:  host.NewRouter(reg),
		pending: pending,
	}, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/v0rts/wutag/internal/api"
	"github.com/v0rts/wutag/internal/config"
	"github.com/v0rts/wutag/internal/logging"
	"github.com/v0rts/wutag/internal/registry"
	"github.com/v0rts/wutag/internal/storage"
	"github.com/v0rts/wutag/internal/ui"
	"github.com/v0rts/wutag/internal/xattr"
)

// app holds everything a command run needs. It is built once per process
// and passed to the commands explicitly.
type app struct {
	cfgFile string

	v      *viper.Viper
	attrs  api.AttrStore
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	reg *registry.Registry
	svc *api.Service
}

func newApp() *app {
	return &app{
		v:      viper.New(),
		attrs:  xattr.FS{},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Registry.Backend {
	case config.BackendBadger:
		return storage.NewBadgerStore(cfg.Registry.Path)
	default:
		return storage.NewFileStore(cfg.Registry.Path), nil
	}
}

// setup loads the configuration and the registry and builds the service.
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	slog.SetDefault(logging.New(a.stderr, cfg.Debug))

	palette, err := cfg.Palette()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open registry store: %w", err)
	}

	reg, err := registry.LoadFrom(store)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		slog.Info("No existing registry found, starting fresh", "location", store.Location())
		reg = registry.NewWithStore(store)
	case err != nil:
		store.Close()
		return fmt.Errorf("load registry: %w", err)
	default:
		tags, entries := reg.Len()
		slog.Debug("Registry loaded", "location", store.Location(), "tags", tags, "entries", entries)
	}
	a.reg = reg

	a.svc = api.NewService(reg, a.attrs, ui.NewPrinter(a.stdout, cfg.UI.NoColor), api.Options{
		BaseDir:  cfg.Walk.Dir,
		MaxDepth: cfg.Walk.MaxDepth,
		Palette:  palette,
	})
	return nil
}

// teardown saves a changed registry and releases the store.
func (a *app) teardown() error {
	if a.reg == nil {
		return nil
	}

	saveErr := a.svc.Save()
	closeErr := a.reg.Close()
	a.reg, a.svc = nil, nil

	if saveErr != nil {
		return saveErr
	}
	if closeErr != nil {
		return fmt.Errorf("close registry store: %w", closeErr)
	}
	return nil
}

// run executes fn and then tears down, so a partially applied command still
// saves what it changed.
func (a *app) run(fn func() error) error {
	return errors.Join(fn(), a.teardown())
}

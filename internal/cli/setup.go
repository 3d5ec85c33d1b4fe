package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/mmr-tortoise/repoyard/internal/config"
	"github.com/mmr-tortoise/repoyard/internal/engine"
	"github.com/mmr-tortoise/repoyard/internal/gitcmd"
	"github.com/mmr-tortoise/repoyard/internal/model"
	"github.com/mmr-tortoise/repoyard/internal/store"
)

// app bundles the long-lived collaborators a command needs: the loaded
// settings, the open record store, and the engine wired on top of them.
type app struct {
	settings *config.Settings
	store    *store.Store
	engine   *engine.Engine
}

// openApp loads settings, opens the record store and constructs the
// engine. Callers must Close the returned app.
func openApp() (*app, error) {
	path := settingsPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load settings", err)
	}
	VerboseLog("Workspaces root: %s", settings.WorkspacesRoot)

	st, err := store.New(settings.DatabasePath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to open workspace store", err)
	}

	eng, err := engine.New(st, gitcmd.ExecRunner{}, settings, newLogger())
	if err != nil {
		_ = st.Close()
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to initialize engine", err)
	}

	return &app{settings: settings, store: st, engine: eng}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	_ = a.store.Close()
}

// newLogger builds the slog logger handed to the engine. Quiet by
// default; --verbose turns on debug-level text output on stderr.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

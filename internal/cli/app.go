package cli

import (
	"context"
	"errors"
	"fmt"

	"budgettracker/internal/backend"
	"budgettracker/internal/config"
	"budgettracker/internal/events"
	applog "budgettracker/internal/log"
	"budgettracker/internal/services"
	"budgettracker/internal/state"
	"budgettracker/internal/storage"
)

// App is a fully wired tracker session.
type App struct {
	Config   *config.Config
	Logger   *applog.Logger
	Store    *state.Store
	Service  *services.ExpenseService
	notifier *events.Notifier
	cleanup  backend.CleanupFunc
	detach   func()
}

// Open builds the backend named in cfg, loads the store and wires the
// command layer. The caller must Close the App.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger, confirm services.Confirmer, opts ...state.Option) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	ctx = applog.NewContext(ctx, logger)
	store, err := state.Open(ctx, storage.NewRepository(res.KV), opts...)
	if err != nil {
		if cerr := res.Cleanup(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, fmt.Errorf("open store: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Service: services.NewExpenseService(store, confirm, logger),
		cleanup: res.Cleanup,
	}
	if res.Publisher != nil {
		app.notifier = events.NewNotifier(res.Publisher, logger)
		app.detach = app.notifier.Attach(store)
	}
	return app, nil
}

// Close detaches observers and releases the backend.
func (a *App) Close() error {
	if a.detach != nil {
		a.detach()
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}

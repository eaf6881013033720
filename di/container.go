// Package di wires the ReadLeaf core together for a host application.
//
// The store and services are constructed once per process; collaborators
// receive them by constructor injection rather than through global state.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/readleafapp/readleaf-core/config"
	"github.com/readleafapp/readleaf-core/export"
	"github.com/readleafapp/readleaf-core/logger"
	"github.com/readleafapp/readleaf-core/photos"
	"github.com/readleafapp/readleaf-core/service"
	"github.com/readleafapp/readleaf-core/store"
	"github.com/readleafapp/readleaf-core/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, ProvideConfig)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideValidator)

	// Storage layer
	do.Provide(injector, ProvideStore)
	do.Provide(injector, ProvidePhotoStorage)
	do.Provide(injector, ProvidePhotoProcessor)
	do.Provide(injector, ProvideExporter)

	// Services
	do.Provide(injector, ProvideBookService)
	do.Provide(injector, ProvideStatsService)

	return injector
}

// Bootstrap triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*service.BookService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.StatsService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*photos.Processor](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*export.SQLite](injector); err != nil {
		return err
	}
	return nil
}

// ProvideConfig loads configuration from the environment.
func ProvideConfig(do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the structured logger from config.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}

// ProvideValidator builds the shared input validator.
func ProvideValidator(do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideStore opens the library database.
func ProvideStore(i do.Injector) (*store.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return store.Open(cfg.Storage.DataPath, log.Logger)
}

// ProvideBookService loads the library into the mutation surface.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	st := do.MustInvoke[*store.Store](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookService(context.Background(), st, validate, log.Logger), nil
}

// ProvideStatsService builds the statistics engine over the book service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewStatsService(books, log.Logger), nil
}

// ProvidePhotoStorage creates the cover photo directory store.
func ProvidePhotoStorage(i do.Injector) (*photos.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return photos.NewStorage(cfg.Photos.BasePath)
}

// ProvidePhotoProcessor builds the cover photo pipeline.
func ProvidePhotoProcessor(i do.Injector) (*photos.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storage := do.MustInvoke[*photos.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return photos.NewProcessor(storage, cfg.Photos.MaxEdge, log.Logger), nil
}

// ProvideExporter builds the SQLite snapshot exporter.
func ProvideExporter(i do.Injector) (*export.SQLite, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return export.NewSQLite(log.Logger), nil
}

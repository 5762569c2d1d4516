package backend

import (
	"context"
	"errors"
	"fmt"

	"budgettracker/internal/events"
	applog "budgettracker/internal/log"
	"budgettracker/internal/storage"
	"budgettracker/internal/storage/filekv"
	"budgettracker/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Nop()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		kv  storage.KV
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		kv, err = storage.NewSQLiteKV(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", applog.FieldPath, config.SQLiteDBPath)
	case FileBackend:
		kv, err = filekv.New(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", applog.FieldPath, config.DataDirectory)
	case MemoryBackend:
		kv = memory.NewFromFiles(config.DataDirectory, storage.BudgetKey, storage.ExpensesKey)
		f.logger.InfoContext(ctx, "Initialized memory backend", applog.FieldPath, config.DataDirectory)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &BackendResult{KV: kv}
	if config.AMQPURL != "" {
		result.Publisher = events.NewAMQPPublisher(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey, f.logger)
		f.logger.InfoContext(ctx, "AMQP change feed enabled",
			"exchange", config.AMQPExchange,
			"routing_key", config.AMQPRoutingKey)
	}

	result.Cleanup = func() error {
		var errs []error
		if result.Publisher != nil {
			if err := result.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := kv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}

	return result, nil
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"alugueis/internal/amqp"
	"alugueis/internal/ledger"
	"alugueis/internal/ledger/memory"
	applog "alugueis/internal/log"
	"alugueis/internal/services"
	"alugueis/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With(applog.FieldComponent, applog.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var store ledger.Store
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		store = repo
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		store = memory.New()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	svc := services.NewRentalService(store, f.publisher(ctx, config), config.CashMethodLabel)
	return &BackendResult{
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

// publisher connects to the broker when configured. A broker that cannot be
// reached leaves publishing disabled rather than failing startup.
func (f *DefaultFactory) publisher(ctx context.Context, config Config) services.Publisher {
	if config.AMQPURL == "" {
		return nil
	}
	attempts := config.AMQPAttempts
	if attempts < 1 {
		attempts = 1
	}
	client, err := amqp.ConnectWithRetry(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, attempts)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expenses/internal/amqp"
	"expenses/internal/events/kafka"
	"expenses/internal/services"
	"expenses/internal/sheets"
	gsheet "expenses/internal/sheets/google"
	"expenses/internal/sheets/memory"
	"expenses/internal/storage"
	memstore "expenses/internal/storage/memory"
	"expenses/internal/storage/postgres"
	"expenses/internal/worker"
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
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (services.ExpenseStore, error) {
	switch config.Store {
	case SQLiteStore:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)
		return repo, nil

	case PostgresStore:
		ctx, cancel := f.connectContext(ctx, config)
		defer cancel()
		store, err := postgres.Open(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres store")
		return store, nil

	case MemoryStore:
		f.logger.Warn("Using in-memory store, records are lost on restart")
		return memstore.New(), nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Store)
	}
}

// CreatePublisher implements Factory.CreatePublisher. A broker that is
// down at startup is logged and the service runs without events.
func (f *DefaultFactory) CreatePublisher(_ context.Context, config Config) (services.EventPublisher, error) {
	switch config.Events {
	case NoEvents:
		return nil, nil

	case AMQPEvents:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			return nil, nil
		}
		f.logger.Info("Initialized AMQP publisher",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return client, nil

	case KafkaEvents:
		f.logger.Info("Initialized Kafka publisher",
			"brokers", config.KafkaBrokers,
			"topic", config.KafkaTopic)
		return kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic), nil

	default:
		return nil, fmt.Errorf("unsupported event type: %s", config.Events)
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(_ context.Context, config Config) (worker.Source, CleanupFunc, error) {
	switch config.Events {
	case AMQPEvents:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AMQP consumer: %w", err)
		}
		f.logger.Info("Initialized AMQP consumer", "queue", config.AMQPQueue)
		return client.ConsumeExpenseCreated, client.Close, nil

	case KafkaEvents:
		consumer := kafka.NewConsumer(config.KafkaBrokers, config.KafkaTopic, config.KafkaGroupID)
		f.logger.Info("Initialized Kafka consumer",
			"topic", config.KafkaTopic,
			"group_id", config.KafkaGroupID)
		return consumer.Consume, consumer.Close, nil

	case NoEvents:
		return nil, nil, fmt.Errorf("worker needs an event backend, got %q", config.Events)

	default:
		return nil, nil, fmt.Errorf("unsupported event type: %s", config.Events)
	}
}

// CreateMirror implements Factory.CreateMirror
func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (sheets.RecordMirror, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Warn("No spreadsheet configured, mirroring to memory")
		return memory.New(), nil
	}
	ctx, cancel := f.connectContext(ctx, config)
	defer cancel()
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets mirror", "sheet", config.GoogleSheetName)
	return client, nil
}

func (f *DefaultFactory) connectContext(ctx context.Context, config Config) (context.Context, context.CancelFunc) {
	if config.ConnectTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, config.ConnectTimeout)
}

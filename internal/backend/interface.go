// Package backend turns configuration into the concrete store, event
// transport and mirror used by the binaries.
package backend

import (
	"context"
	"time"

	"expenses/internal/services"
	"expenses/internal/sheets"
	"expenses/internal/worker"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Factory creates backends based on configuration
type Factory interface {
	// CreateStore opens the ledger store, running migrations when needed.
	CreateStore(ctx context.Context, config Config) (services.ExpenseStore, error)
	// CreatePublisher returns nil when events are disabled.
	CreatePublisher(ctx context.Context, config Config) (services.EventPublisher, error)
	// CreateSource returns the consumer feeding the mirror worker.
	CreateSource(ctx context.Context, config Config) (worker.Source, CleanupFunc, error)
	// CreateMirror returns the Google Sheets mirror, or an in-memory one
	// when no spreadsheet is configured.
	CreateMirror(ctx context.Context, config Config) (sheets.RecordMirror, error)
}

// Config holds configuration for backend creation
type Config struct {
	Store  StoreType
	Events EventType

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresURL string

	// AMQP specific
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Kafka specific
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	ConnectTimeout time.Duration
}

// StoreType selects the ledger store.
type StoreType string

const (
	SQLiteStore   StoreType = "sqlite"
	PostgresStore StoreType = "postgres"
	MemoryStore   StoreType = "memory"
)

// String implements fmt.Stringer
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case SQLiteStore, PostgresStore, MemoryStore:
		return true
	default:
		return false
	}
}

// EventType selects the event transport.
type EventType string

const (
	NoEvents    EventType = "none"
	AMQPEvents  EventType = "amqp"
	KafkaEvents EventType = "kafka"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case NoEvents, AMQPEvents, KafkaEvents:
		return true
	default:
		return false
	}
}

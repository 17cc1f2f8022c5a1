package backend

import (
	"fmt"
	"time"

	"expenses/internal/config"
)

const defaultConnectTimeout = 15 * time.Second

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Store:  StoreType(appConfig.StoreBackend),
		Events: EventType(appConfig.EventBackend),

		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		KafkaBrokers: appConfig.KafkaBrokers,
		KafkaTopic:   appConfig.KafkaTopic,
		KafkaGroupID: appConfig.KafkaGroupID,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		ConnectTimeout: defaultConnectTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Store.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Store)
	}
	if !c.Events.IsValid() {
		return fmt.Errorf("invalid event type: %s", c.Events)
	}

	switch c.Store {
	case SQLiteStore:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite store")
		}
	case PostgresStore:
		if c.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required for postgres store")
		}
	}

	switch c.Events {
	case AMQPEvents:
		if c.AMQPURL == "" || c.AMQPExchange == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP URL, exchange and queue are required for amqp events")
		}
	case KafkaEvents:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			return fmt.Errorf("Kafka brokers and topic are required for kafka events")
		}
	}
	return nil
}

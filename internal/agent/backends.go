package agent

import (
	"context"
	"fmt"
	"time"

	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/pkg/attachment"
	"github.com/mwantia/gomaterials/pkg/db/store"
	"github.com/mwantia/gomaterials/pkg/events"
)

// OpenMetadataStore creates the configured metadata store without connecting it.
func OpenMetadataStore(cfg config.MetadataServerConfig) (*store.GormStore, error) {
	level := store.ParseLogLevel(cfg.LogLevel)

	switch cfg.Type {
	case config.MetadataTypeSQLite:
		return store.NewSQLiteStore(store.SQLiteConfig{
			Path:     cfg.SQLite.Path,
			LogLevel: level,
		})
	case config.MetadataTypePostgres:
		return store.NewPostgresStore(store.PostgresConfig{
			Host:         cfg.Postgres.Host,
			Port:         cfg.Postgres.Port,
			User:         cfg.Postgres.User,
			Password:     cfg.Postgres.Password,
			Database:     cfg.Postgres.Database,
			SSLMode:      cfg.Postgres.SSLMode,
			TimeZone:     cfg.Postgres.TimeZone,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			LogLevel:     level,
		})
	default:
		return nil, fmt.Errorf("unknown metadata type '%s'", cfg.Type)
	}
}

func openAttachmentStore(ctx context.Context, cfg config.StorageServerConfig) (attachment.Store, error) {
	switch cfg.Type {
	case config.StorageTypeLocal:
		return attachment.NewLocalStore(cfg.Local.Root)
	case config.StorageTypeMinIO:
		return attachment.NewMinIOStore(ctx, attachment.MinIOConfig{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKeyID,
			SecretAccessKey: cfg.MinIO.SecretAccessKey,
			Bucket:          cfg.MinIO.Bucket,
			Region:          cfg.MinIO.Region,
			UseSSL:          cfg.MinIO.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage type '%s'", cfg.Type)
	}
}

func openPublisher(cfg config.EventsServerConfig) (events.Publisher, error) {
	switch cfg.Type {
	case config.EventsTypeNone, "":
		return events.NoopPublisher{}, nil
	case config.EventsTypeKafka:
		return events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: config.Duration(cfg.Kafka.WriteTimeout, 5*time.Second),
		})
	default:
		return nil, fmt.Errorf("unknown events type '%s'", cfg.Type)
	}
}

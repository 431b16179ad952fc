package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			AccessLog:  true,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
		HTTP: HTTPServerConfig{
			Address:       ":5000",
			PublicURL:     "",
			MaxUploadSize: 32 << 20,
			CORSOrigins:   []string{"*"},
			ReadTimeout:   "5m",
			WriteTimeout:  "5m",
		},
		Metadata: MetadataServerConfig{
			Type:     MetadataTypeSQLite,
			LogLevel: "silent",
			SQLite: MetadataSQLiteConfig{
				Path: "./data/materials.db",
			},
			Postgres: MetadataPostgresConfig{
				Host:         "localhost",
				Port:         5432,
				User:         "postgres",
				Database:     "materials",
				SSLMode:      "disable",
				TimeZone:     "UTC",
				MaxOpenConns: 10,
			},
		},
		Storage: StorageServerConfig{
			Type:             StorageTypeLocal,
			CleanupOnFailure: false,
			Local: StorageLocalConfig{
				Root: "./uploads",
			},
			MinIO: StorageMinIOConfig{
				Endpoint: "localhost:9000",
				Bucket:   "materials",
				UseSSL:   false,
			},
		},
		Events: EventsServerConfig{
			Type: EventsTypeNone,
			Kafka: EventsKafkaConfig{
				Brokers:      []string{"localhost:9092"},
				Topic:        "materials.events",
				WriteTimeout: "5s",
			},
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.access_log", defaults.Log.AccessLog)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("http.address", defaults.HTTP.Address)
	viper.SetDefault("http.public_url", defaults.HTTP.PublicURL)
	viper.SetDefault("http.max_upload_size", defaults.HTTP.MaxUploadSize)
	viper.SetDefault("http.cors_origins", defaults.HTTP.CORSOrigins)
	viper.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	viper.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.log_level", defaults.Metadata.LogLevel)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.postgres.host", defaults.Metadata.Postgres.Host)
	viper.SetDefault("metadata.postgres.port", defaults.Metadata.Postgres.Port)
	viper.SetDefault("metadata.postgres.user", defaults.Metadata.Postgres.User)
	viper.SetDefault("metadata.postgres.password", defaults.Metadata.Postgres.Password)
	viper.SetDefault("metadata.postgres.database", defaults.Metadata.Postgres.Database)
	viper.SetDefault("metadata.postgres.ssl_mode", defaults.Metadata.Postgres.SSLMode)
	viper.SetDefault("metadata.postgres.time_zone", defaults.Metadata.Postgres.TimeZone)
	viper.SetDefault("metadata.postgres.max_open_conns", defaults.Metadata.Postgres.MaxOpenConns)

	viper.SetDefault("storage.type", defaults.Storage.Type)
	viper.SetDefault("storage.cleanup_on_failure", defaults.Storage.CleanupOnFailure)
	viper.SetDefault("storage.local.root", defaults.Storage.Local.Root)
	viper.SetDefault("storage.minio.endpoint", defaults.Storage.MinIO.Endpoint)
	viper.SetDefault("storage.minio.access_key_id", defaults.Storage.MinIO.AccessKeyID)
	viper.SetDefault("storage.minio.secret_access_key", defaults.Storage.MinIO.SecretAccessKey)
	viper.SetDefault("storage.minio.bucket", defaults.Storage.MinIO.Bucket)
	viper.SetDefault("storage.minio.region", defaults.Storage.MinIO.Region)
	viper.SetDefault("storage.minio.use_ssl", defaults.Storage.MinIO.UseSSL)

	viper.SetDefault("events.type", defaults.Events.Type)
	viper.SetDefault("events.kafka.brokers", defaults.Events.Kafka.Brokers)
	viper.SetDefault("events.kafka.topic", defaults.Events.Kafka.Topic)
	viper.SetDefault("events.kafka.write_timeout", defaults.Events.Kafka.WriteTimeout)
}

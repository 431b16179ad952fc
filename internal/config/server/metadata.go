package server

const (
	MetadataTypeSQLite   = "sqlite"
	MetadataTypePostgres = "postgres"
)

// MetadataServerConfig holds metadata store configuration
type MetadataServerConfig struct {
	Type     string                 `mapstructure:"type"     yaml:"type"`
	LogLevel string                 `mapstructure:"log_level" yaml:"log_level"`
	SQLite   MetadataSQLiteConfig   `mapstructure:"sqlite"   yaml:"sqlite"`
	Postgres MetadataPostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// MetadataPostgresConfig holds PostgreSQL-specific configuration
type MetadataPostgresConfig struct {
	Host         string `mapstructure:"host"           yaml:"host"`
	Port         int    `mapstructure:"port"           yaml:"port"`
	User         string `mapstructure:"user"           yaml:"user"`
	Password     string `mapstructure:"password"       yaml:"password"`
	Database     string `mapstructure:"database"       yaml:"database"`
	SSLMode      string `mapstructure:"ssl_mode"       yaml:"ssl_mode"`
	TimeZone     string `mapstructure:"time_zone"      yaml:"time_zone"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
}

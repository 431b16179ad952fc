package server

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log      LogServerConfig      `mapstructure:"log"      yaml:"log"`
	HTTP     HTTPServerConfig     `mapstructure:"http"     yaml:"http"`
	Metadata MetadataServerConfig `mapstructure:"metadata" yaml:"metadata"`
	Storage  StorageServerConfig  `mapstructure:"storage"  yaml:"storage"`
	Events   EventsServerConfig   `mapstructure:"events"   yaml:"events"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the backend selectors, which are the only values that cannot fall back to a default.
func (cfg *BaseServerConfig) Validate() error {
	switch cfg.Metadata.Type {
	case MetadataTypeSQLite, MetadataTypePostgres:
	default:
		return fmt.Errorf("unknown metadata type '%s'", cfg.Metadata.Type)
	}

	switch cfg.Storage.Type {
	case StorageTypeLocal, StorageTypeMinIO:
	default:
		return fmt.Errorf("unknown storage type '%s'", cfg.Storage.Type)
	}

	switch cfg.Events.Type {
	case EventsTypeNone, EventsTypeKafka:
	default:
		return fmt.Errorf("unknown events type '%s'", cfg.Events.Type)
	}

	return nil
}

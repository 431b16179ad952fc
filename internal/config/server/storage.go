package server

const (
	StorageTypeLocal = "local"
	StorageTypeMinIO = "minio"
)

// StorageServerConfig selects where attachments are written.
type StorageServerConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	// CleanupOnFailure removes attachments written by a create or update that fails afterwards.
	CleanupOnFailure bool `mapstructure:"cleanup_on_failure" yaml:"cleanup_on_failure"`

	Local StorageLocalConfig `mapstructure:"local" yaml:"local"`
	MinIO StorageMinIOConfig `mapstructure:"minio" yaml:"minio"`
}

type StorageLocalConfig struct {
	Root string `mapstructure:"root" yaml:"root"`
}

type StorageMinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"          yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"     yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"            yaml:"bucket"`
	Region          string `mapstructure:"region"            yaml:"region"`
	UseSSL          bool   `mapstructure:"use_ssl"           yaml:"use_ssl"`
}

package server

type HTTPServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
	// PublicURL replaces the request scheme and host when building attachment links.
	PublicURL     string   `mapstructure:"public_url"      yaml:"public_url"`
	MaxUploadSize int64    `mapstructure:"max_upload_size" yaml:"max_upload_size"`
	CORSOrigins   []string `mapstructure:"cors_origins"    yaml:"cors_origins"`
	ReadTimeout   string   `mapstructure:"read_timeout"    yaml:"read_timeout"`
	WriteTimeout  string   `mapstructure:"write_timeout"   yaml:"write_timeout"`
}

package server

// LogServerConfig configures the process logger and the HTTP access log.
type LogServerConfig struct {
	Level      string `mapstructure:"level"       yaml:"level"`
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"`
	File       string `mapstructure:"file"        yaml:"file"`
	NoColor    bool   `mapstructure:"no_color"    yaml:"no_color"`
	JSON       bool   `mapstructure:"json"        yaml:"json"`
	NoTerminal bool   `mapstructure:"no_terminal" yaml:"no_terminal"`
	// AccessLog writes one line per HTTP request. Successful requests are logged at DEBUG.
	AccessLog bool `mapstructure:"access_log" yaml:"access_log"`

	Rotation LogServerRotationConfig `mapstructure:"rotation" yaml:"rotation"`
}

// LogServerRotationConfig is only used when File is set. Sizes are in megabytes, ages in days.
type LogServerRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool `mapstructure:"compress"    yaml:"compress"`
}

package server

const (
	EventsTypeNone  = "none"
	EventsTypeKafka = "kafka"
)

type EventsServerConfig struct {
	Type  string            `mapstructure:"type"  yaml:"type"`
	Kafka EventsKafkaConfig `mapstructure:"kafka" yaml:"kafka"`
}

type EventsKafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"       yaml:"brokers"`
	Topic        string   `mapstructure:"topic"         yaml:"topic"`
	WriteTimeout string   `mapstructure:"write_timeout" yaml:"write_timeout"`
}

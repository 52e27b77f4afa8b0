package kafka_config

import "time"

const (
	// No brokers means booking events are disabled.
	DefaultKafkaBrokers   = ""
	DefaultTopic          = "bookings.events"
	DefaultSource         = "queendoctor"
	DefaultPublishTimeout = 5 * time.Second

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerWriteTimeout = 10 * time.Second
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
)

package kafka_config

const (
	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaTopic          = "KAFKA_BOOKINGS_TOPIC"
	EnvKafkaDLQTopic       = "KAFKA_BOOKINGS_DLQ_TOPIC"
	EnvKafkaSource         = "KAFKA_EVENT_SOURCE"
	EnvKafkaPublishTimeout = "KAFKA_PUBLISH_TIMEOUT"

	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerWriteTimeout = "KAFKA_PRODUCER_WRITE_TIMEOUT"
	EnvKafkaProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
)

package config

import (
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter tạo writer cho topic sự kiện, nil nếu chưa cấu hình broker
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		log.Println("KAFKA_BROKERS trống, không publish sự kiện")
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
}

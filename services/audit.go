package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/graceful_shutdown"
)

// AuditPublisher records every applied points event for downstream consumers
// (analytics, the rewards service).
type AuditPublisher interface {
	Publish(record *entities.PointsAuditRecord) error
}

type kafkaAuditPublisher struct {
	kw *kafka.Writer
}

func NewAuditPublisher(ac *app_config.AppConfig) AuditPublisher {
	kw := &kafka.Writer{
		Addr:                   kafka.TCP(ac.KafkaBrokers...),
		Topic:                  ac.KafkaAuditTopic,
		Balancer:               &kafka.Murmur2Balancer{Consistent: true},
		AllowAutoTopicCreation: true,
	}
	graceful_shutdown.AddOutputShutdownFunc(func() {
		_ = kw.Close()
	})
	return &kafkaAuditPublisher{kw: kw}
}

func (p *kafkaAuditPublisher) Publish(record *entities.PointsAuditRecord) error {
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.kw.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(record.UserID), 10)),
		Value: bytes,
	})
}

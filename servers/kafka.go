package servers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/graceful_shutdown"
	"github.com/civicissues/user-management/servers/consumers"
	"github.com/civicissues/user-management/services"
)

type KafkaConsumer struct {
	r    *kafka.Reader
	pc   *consumers.PointsEventsConsumer
	done chan struct{}
}

// RunKafkaConsumer feeds civic events from the Report Service topic into the
// points pipeline. The internal HTTP endpoint stays the synchronous path;
// this is the buffered one.
func RunKafkaConsumer(ac *app_config.AppConfig, points *services.PointsService) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: ac.KafkaBrokers,
		GroupID: ac.KafkaConsumerGroupId,
		Topic:   ac.KafkaEventsTopic,
	})

	kc := &KafkaConsumer{
		r:    r,
		pc:   consumers.NewPointsEventsConsumer(ac, points),
		done: make(chan struct{}),
	}

	graceful_shutdown.AddInputShutdownFunc(kc.shutdown)

	go kc.listen()
}

// shutdown closes the reader, waits for listen to hand off its last fetched
// message, and only then drains the worker pool. Closing the pool while a
// Dispatch is still in flight would send on a closed channel.
func (kc *KafkaConsumer) shutdown() {
	if err := kc.r.Close(); err != nil {
		slog.Error(err.Error())
	}
	<-kc.done
	kc.pc.Close()
}

func (kc *KafkaConsumer) listen() {
	defer close(kc.done)
	for {
		m, err := kc.r.FetchMessage(context.Background())
		if err != nil {
			slog.Error(err.Error())
			break
		}
		event := &entities.PointsEvent{}
		if err := json.Unmarshal(m.Value, event); err != nil {
			slog.Error(err.Error())
			continue
		}
		kc.pc.Dispatch(event)
		if err := kc.r.CommitMessages(context.Background(), m); err != nil {
			slog.Error(err.Error())
		}
	}
}

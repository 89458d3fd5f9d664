package servers

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/points_config"
	"github.com/civicissues/user-management/servers/consumers"
	"github.com/civicissues/user-management/services"
)

func TestKafkaConsumerShutdownWaitsForListener(t *testing.T) {
	ac := &app_config.AppConfig{KafkaEventsConsumerConcurrency: 2}
	points := services.NewPointsService(
		points_config.NewPointsConfig(),
		newMemoryUserRepo(),
		newMemoryLeaderboardRepo(),
		&memoryAuditPublisher{},
	)

	// Unreachable broker: FetchMessage blocks until the reader is closed.
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{"127.0.0.1:1"},
		GroupID: "test-group",
		Topic:   "civic-events",
	})
	kc := &KafkaConsumer{
		r:    r,
		pc:   consumers.NewPointsEventsConsumer(ac, points),
		done: make(chan struct{}),
	}
	go kc.listen()

	finished := make(chan struct{})
	go func() {
		kc.shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown did not complete: listener never handed off")
	}

	// The pool is only closed after listen has exited, so by now the done
	// channel must be closed too.
	select {
	case <-kc.done:
	default:
		t.Error("listener still running after shutdown returned")
	}
}

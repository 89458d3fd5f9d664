package consumers

import (
	"errors"
	"hash/fnv"
	"log/slog"
	"strconv"
	"sync"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/services"
)

// PointsEventsConsumer fans events out over sharded channels. Events are
// sharded by user id so a single user's events apply in order.
type PointsEventsConsumer struct {
	ch []chan *entities.PointsEvent
	wg sync.WaitGroup

	points *services.PointsService
}

func NewPointsEventsConsumer(ac *app_config.AppConfig, points *services.PointsService) *PointsEventsConsumer {
	concurrency := ac.KafkaEventsConsumerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	l := &PointsEventsConsumer{
		ch: make([]chan *entities.PointsEvent, concurrency),

		points: points,
	}
	for i := range l.ch {
		l.ch[i] = make(chan *entities.PointsEvent, 64)
	}
	l.start()
	return l
}

func (l *PointsEventsConsumer) start() {
	for i := 0; i < len(l.ch); i++ {
		l.wg.Add(1)
		go func(i int) {
			defer l.wg.Done()
			for event := range l.ch[i] {
				if _, err := l.points.HandleEvent(event); err != nil {
					if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrUnknownEventType) {
						slog.With("event_type", event.EventType).With("user_id", event.UserID).Warn("Dropping unprocessable event")
						continue
					}
					slog.With("err", err).Error("Failed to handle event")
				}
			}
		}(i)
	}
}

func (l *PointsEventsConsumer) Dispatch(event *entities.PointsEvent) {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatUint(uint64(event.UserID), 10)))
	l.ch[h.Sum32()%uint32(len(l.ch))] <- event
}

// Close drains the shards and waits for in-flight events to finish.
func (l *PointsEventsConsumer) Close() {
	for _, ch := range l.ch {
		close(ch)
	}
	l.wg.Wait()
}

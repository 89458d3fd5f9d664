package graceful_shutdown

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Inputs (HTTP listener, Kafka reader) close first so no new work arrives,
// then after a drain window the outputs (Kafka writer, Redis, Postgres) close.
const drainWindow = 5 * time.Second

var mu sync.Mutex
var inputShutdownFuncs []func()
var outputShutdownFuncs []func()

func AddInputShutdownFunc(f func()) {
	mu.Lock()
	defer mu.Unlock()
	inputShutdownFuncs = append(inputShutdownFuncs, f)
}

func AddOutputShutdownFunc(f func()) {
	mu.Lock()
	defer mu.Unlock()
	outputShutdownFuncs = append(outputShutdownFuncs, f)
}

func WaitForSignals() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan

	slog.Info("Received shutdown signal, shutting down...")

	mu.Lock()
	inputs := inputShutdownFuncs
	outputs := outputShutdownFuncs
	mu.Unlock()

	for _, f := range inputs {
		f()
	}

	time.Sleep(drainWindow)

	for _, f := range outputs {
		f()
	}
}

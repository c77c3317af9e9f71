package telemetry

import (
	"context"
	"sync"
	"time"
)

type Recorder interface {
	Record()
}

type ContinuousRecorder interface {
	Recorder
	ContinuousRecord(ctx context.Context)
}

type multiRecorder struct {
	recorders []Recorder
	config    TeleConfig
	mutex     sync.Mutex
}

func (r *multiRecorder) Record() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, recorder := range r.recorders {
		recorder.Record()
	}
}

// ContinuousRecord records on every tick and once more when ctx ends, so the
// last cycle of a stopping daemon is not lost.
func (r *multiRecorder) ContinuousRecord(ctx context.Context) {
	ticker := time.NewTicker(r.config.PushGatewayUpdateRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Record()
			return
		case <-ticker.C:
			r.Record()
		}
	}
}

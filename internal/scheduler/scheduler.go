// Package scheduler runs a named task on a fixed interval until the context
// ends. The engine uses it for the SSE keepalive ping.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Task func(ctx context.Context) error

func Every(ctx context.Context, log *logrus.Logger, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Errorf("[%s] error: %v", name, err)
			}
		}
	}
}

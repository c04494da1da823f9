// Where: internal/launcher/wait.go
// What: Dependency service readiness waiting.
// Why: Avoid attaching the workload before the tracing stack accepts traffic.
package launcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tracekit-dev/agentbox/internal/config"
)

// Waiter blocks until a dependency service is ready to accept the workload.
type Waiter interface {
	Wait(ctx context.Context, svc config.ServiceConfig) error
}

type httpWaiter struct {
	client   *http.Client
	timeout  time.Duration
	interval time.Duration
	sleep    func(time.Duration)
}

// NewHTTPWaiter returns a Waiter that polls the service health URL once per
// second until it answers with a 2xx status. Services without a health URL
// fall back to the configured fixed delay.
func NewHTTPWaiter() Waiter {
	return httpWaiter{
		client:   &http.Client{Timeout: 1 * time.Second},
		timeout:  60 * time.Second,
		interval: 1 * time.Second,
		sleep:    time.Sleep,
	}
}

func (w httpWaiter) Wait(ctx context.Context, svc config.ServiceConfig) error {
	if svc.HealthURL == "" {
		// No health endpoint to poll; the fixed delay is all we have.
		w.sleep(svc.Delay())
		return nil
	}

	deadline := time.Now().Add(w.timeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.HealthURL, nil)
		if err != nil {
			return err
		}
		resp, err := w.client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
		}
		w.sleep(w.interval)
	}

	return fmt.Errorf("service %s not ready after %s", svc.Service, w.timeout)
}

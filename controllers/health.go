package controllers

import (
	"context"
	"net/http"
	"time"
)

// Check pings one backend.
type Check func(ctx context.Context) error

type HealthController struct {
	Checks map[string]Check
}

func NewHealthController(checks map[string]Check) *HealthController {
	return &HealthController{Checks: checks}
}

// Health reports each backend as "ok" or its error, with 503 when any
// check fails.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := map[string]string{}
	for name, check := range hc.Checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": results})
}

package controller

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController reports whether both order stores are reachable
type HealthController struct {
	primary   Pinger
	secondary Pinger
	logger    *zap.SugaredLogger
}

// NewHealthController creates a new HealthController
func NewHealthController(primary, secondary Pinger, logger *zap.SugaredLogger) *HealthController {
	return &HealthController{primary: primary, secondary: secondary, logger: logger}
}

// Ping handles GET /ping
func (c *HealthController) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Health handles GET /api/health
// Example response:
// {"status": "ok", "primary": "ok", "secondary": "ok"}
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok", "primary": "ok", "secondary": "ok"}
	status := http.StatusOK
	if err := c.primary.PingContext(ctx); err != nil {
		c.logger.Errorf("❌ Health: primary store unreachable: %v", err)
		body["primary"], body["status"], status = "down", "degraded", http.StatusServiceUnavailable
	}
	if err := c.secondary.PingContext(ctx); err != nil {
		c.logger.Errorf("❌ Health: secondary store unreachable: %v", err)
		body["secondary"], body["status"], status = "down", "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, status, body, c.logger)
}

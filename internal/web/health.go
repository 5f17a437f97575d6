package web

import (
	"context"
	"net/http"
	"time"
)

const readinessProbeTimeout = 2 * time.Second

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	upstream Pinger
	env      string
	version  string
}

func NewHealthHandler(upstream Pinger, env, version string) *HealthHandler {
	return &HealthHandler{upstream: upstream, env: env, version: version}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type DependencyStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

type ReadinessResponse struct {
	Status       string                      `json:"status"`
	Version      string                      `json:"version,omitempty"`
	Env          string                      `json:"env,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "ok", Version: h.version, Env: h.env})
}

// Readiness probes the availability backend. A failed probe reports degraded,
// still with 200.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{
		Status:       "ok",
		Version:      h.version,
		Env:          h.env,
		Dependencies: make(map[string]DependencyStatus),
	}

	if h.upstream != nil {
		dep := probe(r.Context(), h.upstream)
		if dep.Status != "ok" {
			resp.Status = "degraded"
		}
		resp.Dependencies["availability"] = dep
	}

	writeJSON(w, http.StatusOK, resp)
}

func probe(ctx context.Context, p Pinger) DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, readinessProbeTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	dep := DependencyStatus{Status: "ok", Latency: time.Since(start).Round(time.Microsecond).String()}
	if err != nil {
		dep.Status = "down"
		dep.Error = err.Error()
	}
	return dep
}

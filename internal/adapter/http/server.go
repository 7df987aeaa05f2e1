// Package http exposes the user-facing surface of the estimator: an input
// form, the estimate endpoint, and the operational health/metrics routes.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/couchcryptid/solar-estimator/internal/pipeline"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Estimator runs one estimation per request.
type Estimator interface {
	Estimate(ctx context.Context, req pipeline.Request) (domain.EstimationResult, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the estimation form and API plus health, readiness, and
// metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	estimator  Estimator
	defaults   pipeline.Request
	logger     *slog.Logger
}

// NewServer creates the HTTP server. The defaults fill in any field an
// estimate request omits; they mirror the pre-filled values on the form.
func NewServer(addr string, estimator Estimator, ready ReadinessChecker, defaults pipeline.Request, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // estimation waits on two upstream APIs
			IdleTimeout:  60 * time.Second,
		},
		estimator: estimator,
		defaults:  defaults,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /api/estimate", s.handleEstimate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// estimateRequest is the wire form of an estimation request. Pointer fields
// distinguish "omitted, use the default" from an explicit zero.
type estimateRequest struct {
	Location        *string  `json:"location"`
	AreaM2          *float64 `json:"area_m2"`
	InterestRate    *float64 `json:"interest_rate"`
	PanelEfficiency *float64 `json:"panel_efficiency"`
}

func (s *Server) toPipelineRequest(in estimateRequest) pipeline.Request {
	req := s.defaults
	if in.Location != nil {
		req.Location = *in.Location
	}
	if in.AreaM2 != nil {
		req.AreaM2 = *in.AreaM2
	}
	if in.InterestRate != nil {
		req.InterestRate = *in.InterestRate
	}
	if in.PanelEfficiency != nil {
		req.PanelEfficiency = *in.PanelEfficiency
	}
	return req
}

type estimateResponse struct {
	RequestID   string                  `json:"request_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Result      domain.EstimationResult `json:"result"`
	Warning     string                  `json:"warning,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	logger := s.logger.With("request_id", requestID)

	var in estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Reason:  "bad_request",
			Message: fmt.Sprintf("invalid request body: %v", err),
		}})
		return
	}

	req := s.toPipelineRequest(in)
	logger.Info("estimate requested",
		"location", req.Location,
		"area_m2", req.AreaM2,
		"interest_rate", req.InterestRate,
		"panel_efficiency", req.PanelEfficiency,
	)

	result, err := s.estimator.Estimate(r.Context(), req)
	if err != nil {
		reason := domain.ReasonOf(err)
		writeJSON(w, statusFor(reason), errorResponse{Error: errorBody{
			Reason:  string(reason),
			Message: messageFor(reason, err),
		}})
		return
	}

	resp := estimateResponse{
		RequestID:   requestID,
		GeneratedAt: clock.Now().UTC(),
		Result:      result,
	}
	if result.Irradiance.Source == domain.SourceFallback {
		resp.Warning = fmt.Sprintf("primary irradiance source unavailable; values come from the %s fallback", result.Irradiance.Provider)
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(reason domain.FailureReason) int {
	switch reason {
	case domain.ReasonLocationNotFound:
		return http.StatusNotFound
	case domain.ReasonIrradianceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// messageFor keeps upstream error detail out of user-facing messages for the
// data-source failures, per the error-surface policy.
func messageFor(reason domain.FailureReason, err error) string {
	switch reason {
	case domain.ReasonLocationNotFound:
		return "could not find the location; enter a valid city or region"
	case domain.ReasonIrradianceUnavailable:
		return "both irradiance data sources are unavailable; try again later"
	default:
		return err.Error()
	}
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, s.defaults); err != nil {
		s.logger.Error("render form", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><title>Solar Potential Estimator</title></head>
<body>
<h1>Solar Potential Estimator</h1>
<form id="estimate">
  <label>Location <input name="location" value="{{.Location}}"></label><br>
  <label>Usable area (m²) <input name="area_m2" type="number" step="any" min="1" value="{{.AreaM2}}"></label><br>
  <label>Interest rate <input name="interest_rate" type="number" step="any" min="0" value="{{.InterestRate}}"></label><br>
  <label>Panel efficiency <input name="panel_efficiency" type="number" step="any" min="0.1" max="0.25" value="{{.PanelEfficiency}}"></label><br>
  <button type="submit">Estimate</button>
</form>
<pre id="out"></pre>
<script>
document.getElementById("estimate").addEventListener("submit", async (e) => {
  e.preventDefault();
  const f = new FormData(e.target);
  const body = {
    location: f.get("location"),
    area_m2: Number(f.get("area_m2")),
    interest_rate: Number(f.get("interest_rate")),
    panel_efficiency: Number(f.get("panel_efficiency")),
  };
  const resp = await fetch("/api/estimate", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body),
  });
  document.getElementById("out").textContent = JSON.stringify(await resp.json(), null, 2);
});
</script>
</body>
</html>
`))

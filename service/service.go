// Package service exposes the checker's buffer entry points over HTTP for
// editor integrations and CI pipelines, instrumented with Prometheus
// metrics (SPEC_FULL.md §2, component D6).
package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/segmentio/ksuid"

	txtacheck "github.com/txta-lang/txtacheck"
	"github.com/txta-lang/txtacheck/source"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txtacheck_checks_total",
		Help: "Number of check requests handled, by dialect and outcome.",
	}, []string{"dialect", "outcome"})

	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "txtacheck_check_duration_seconds",
		Help:    "Time spent checking one request.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})
)

// CheckRequest is the POST /v1/check request body. Markup selects the XML
// dialect; Name is used only for diagnostic positions.
type CheckRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Markup bool   `json:"markup"`
}

type diagnosticDTO struct {
	Pos     int    `json:"pos"`
	End     int    `json:"end"`
	Warning bool   `json:"warning"`
	Message string `json:"message"`
}

type CheckResponse struct {
	RequestID   string          `json:"requestId"`
	OK          bool            `json:"ok"`
	Diagnostics []diagnosticDTO `json:"diagnostics"`
}

// NewRouter builds the service's HTTP handler: POST /v1/check and GET
// /metrics, with permissive CORS for browser-based editor clients.
func NewRouter() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/check", handleCheck).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return cors.Default().Handler(r)
}

func handleCheck(w http.ResponseWriter, r *http.Request) {
	reqID := ksuid.New().String()

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	dialect := "classic"
	if req.Markup {
		dialect = "markup"
	}
	start := time.Now()

	list := source.FromBuffer(req.Name, []byte(req.Source))
	var ok bool
	if req.Markup {
		_, ok = txtacheck.CheckMarkupBuffer(req.Name, []byte(req.Source), list)
	} else {
		_, ok = txtacheck.CheckBuffer(req.Name, []byte(req.Source), list)
	}

	checkDuration.WithLabelValues(dialect).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	checksTotal.WithLabelValues(dialect, outcome).Inc()

	resp := CheckResponse{RequestID: reqID, OK: ok}
	for _, d := range list.Diagnostics() {
		resp.Diagnostics = append(resp.Diagnostics, diagnosticDTO{
			Pos: int(d.Pos), End: int(d.End), Warning: d.Warning, Message: d.Msg,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusOK) // a rejected check is a successful request
	}
	json.NewEncoder(w).Encode(resp)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/fanctl/base/metrics"

	"example.com/fanctl/core/config"
	"example.com/fanctl/core/curves"
	"example.com/fanctl/core/fls"
)

var (
	errMissingTemperature = errors.New("missing temperature")
	errInvalidTemperature = errors.New("invalid temperature")
	errBatchTooLarge      = errors.New("batch too large")
	errEmptyBatch         = errors.New("empty batch")

	inferenceMetrics = struct {
		requests  prometheus.Counter
		errors    prometheus.Counter
		noFire    prometheus.Counter
		output    prometheus.Histogram
		batchSize prometheus.Histogram
	}{
		requests: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.InferenceRequestsN,
			Help: metrics.InferenceRequestsH,
		}),
		errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.InferenceErrorsN,
			Help: metrics.InferenceErrorsH,
		}),
		noFire: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.InferenceNoFireN,
			Help: metrics.InferenceNoFireH,
		}),
		output: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    metrics.InferenceOutputN,
			Help:    metrics.InferenceOutputH,
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		batchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    metrics.BatchSizeN,
			Help:    metrics.BatchSizeH,
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
)

type activation struct {
	Input   string  `json:"input"`
	Output  string  `json:"output"`
	Primary float64 `json:"primary"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Fired   bool    `json:"fired"`
}

type strength struct {
	Set   string  `json:"set"`
	Value float64 `json:"value"`
}

type inferResponse struct {
	Temperature float64      `json:"temperature"`
	Output      float64      `json:"output"`
	Fired       bool         `json:"fired"`
	Activations []activation `json:"activations"`
	Strengths   []strength   `json:"strengths"`
}

type batchRequest struct {
	Temperatures []float64 `json:"temperatures"`
}

type batchResponse struct {
	Outputs []float64 `json:"outputs"`
}

type Server struct {
	log    *zap.Logger
	sys    *fls.System
	cfg    config.ServiceConfig
	router *chi.Mux
}

func NewServer(log *zap.Logger, sys *fls.System, cfg config.ServiceConfig) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	s := &Server{log: log, sys: sys, cfg: cfg.WithDefaults(), router: r}
	r.Get("/health", s.handleHealth)
	r.Get("/infer", s.handleInfer)
	r.Post("/infer/batch", s.handleBatch)
	r.Get("/curves.svg", s.handleCurves)
	r.Handle("/metrics", promhttp.Handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Run() error {
	s.log.Info("listening", zap.String("address", s.cfg.ListenAddr))
	return http.ListenAndServe(s.cfg.ListenAddr, s.router)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Info("failed to write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	inferenceMetrics.errors.Inc()
	http.Error(w, err.Error(), status)
}

func (s *Server) observe(t fls.Trace) {
	inferenceMetrics.requests.Inc()
	inferenceMetrics.output.Observe(t.Output)
	if !t.Fired() {
		inferenceMetrics.noFire.Inc()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func parseTemperature(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("temperature")
	if v == "" {
		return 0, errMissingTemperature
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: %q", errInvalidTemperature, v)
	}
	return t, nil
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	temperature, err := parseTemperature(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	t, err := s.sys.Explain(temperature)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	s.observe(t)

	resp := inferResponse{
		Temperature: t.Temperature,
		Output:      t.Output,
		Fired:       t.Fired(),
		Activations: make([]activation, len(t.Activations)),
		Strengths:   make([]strength, len(t.Strengths)),
	}
	for i, a := range t.Activations {
		resp.Activations[i] = activation{
			Input:   a.Input,
			Output:  a.Output,
			Primary: a.Primary,
			Lower:   a.Lower,
			Upper:   a.Upper,
			Fired:   a.Fired,
		}
	}
	for i, x := range t.Strengths {
		resp.Strengths[i] = strength{Set: x.Set, Value: x.Value}
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	n := len(req.Temperatures)
	if n == 0 {
		s.fail(w, http.StatusBadRequest, errEmptyBatch)
		return
	}
	if n > s.cfg.MaxBatch {
		s.fail(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d > %d", errBatchTooLarge, n, s.cfg.MaxBatch))
		return
	}
	inferenceMetrics.batchSize.Observe(float64(n))

	traces := make([]fls.Trace, n)
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchParallelism)
	for i, temperature := range req.Temperatures {
		i, temperature := i, temperature
		g.Go(func() error {
			t, err := s.sys.Explain(temperature)
			if err != nil {
				return fmt.Errorf("temperature %d: %w", i, err)
			}
			traces[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	resp := batchResponse{Outputs: make([]float64, n)}
	for i, t := range traces {
		s.observe(t)
		resp.Outputs[i] = t.Output
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleCurves(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := curves.Write(&buf, s.sys, curves.DefaultSamples, "svg")
	if err != nil {
		s.log.Info("failed to render curves", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = buf.WriteTo(w)
}

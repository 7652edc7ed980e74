package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalysis "github.com/readtheroom/readtheroom/internal/application/analysis"
	appreviews "github.com/readtheroom/readtheroom/internal/application/reviews"
	domanalysis "github.com/readtheroom/readtheroom/internal/domain/analysis"
	"github.com/readtheroom/readtheroom/internal/domain/payments"
	"github.com/readtheroom/readtheroom/internal/domain/pricing"
	domreview "github.com/readtheroom/readtheroom/internal/domain/review"
	"github.com/readtheroom/readtheroom/internal/middleware"
)

// maxWebhookBody caps webhook payload reads; Stripe events are small.
const maxWebhookBody = 1 << 20

type Router struct {
	analysisSvc *appanalysis.Service
	reviewsSvc  *appreviews.Service
	logger      *slog.Logger
}

type Options struct {
	Logger         *slog.Logger
	HealthCheckers map[string]middleware.HealthChecker
	Registry       *prometheus.Registry
	AnalyzeLimiter *middleware.IPRateLimiter
}

func NewRouter(analysisSvc *appanalysis.Service, reviewsSvc *appreviews.Service, opts Options) http.Handler {
	r := &Router{analysisSvc: analysisSvc, reviewsSvc: reviewsSvc, logger: opts.Logger}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(metrics.Middleware)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.Route("/v1", func(rt chi.Router) {
		analyze := rt
		if opts.AnalyzeLimiter != nil {
			analyze = rt.With(middleware.RateLimit(opts.AnalyzeLimiter))
		}
		analyze.Post("/analyze", r.wrap(r.handleAnalyze))

		rt.Get("/analysis/{id}", r.wrap(r.handleGetAnalysis))
		rt.Get("/pricing", r.wrap(r.handlePricing))
		rt.Post("/checkout", r.wrap(r.handleCheckout))
		rt.Post("/webhooks/stripe", r.wrap(r.handleStripeWebhook))
		rt.Post("/share", r.wrap(r.handleCreateShare))
		rt.Get("/share", r.wrap(r.handleGetShare))
		rt.Post("/reviews", r.wrap(r.handleSubmitReview))
		rt.Get("/reviews", r.wrap(r.handleListReviews))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError carries an explicit HTTP status through the wrap.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &statusError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var se *statusError
		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case errors.As(err, &se):
			status = se.status
		case errors.Is(err, domanalysis.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domanalysis.ErrInvalidShare):
			status = http.StatusBadRequest
		case errors.Is(err, payments.ErrInvalidSignature):
			status = http.StatusBadRequest
		default:
			// Do not leak internals on unexpected failures.
			r.logger.Error("request failed",
				slog.String("path", req.URL.Path),
				slog.String("error", msg),
			)
			msg = "internal server error"
		}

		writeJSON(w, status, map[string]string{"error": msg})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// POST /v1/analyze
// Body: {"text": "<chat transcript>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if strings.TrimSpace(body.Text) == "" {
		return badRequest("text is required")
	}

	// Model failures still produce a renderable result; the UI branches on
	// the "Internal Error:" roast prefix.
	result := r.analysisSvc.Submit(req.Context(), body.Text)
	writeJSON(w, http.StatusOK, result)
	return nil
}

// GET /v1/analysis/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	result, err := r.analysisSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

// GET /v1/pricing
func (r *Router) handlePricing(w http.ResponseWriter, req *http.Request) error {
	tier := pricing.Resolve(middleware.CountryHint(req))
	writeJSON(w, http.StatusOK, tier)
	return nil
}

// POST /v1/checkout
// Body: {"analysis_id": "<id>"}
func (r *Router) handleCheckout(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisID string `json:"analysis_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}
	if body.AnalysisID == "" {
		return badRequest("analysis_id is required")
	}

	url, err := r.analysisSvc.CreateCheckout(req.Context(),
		body.AnalysisID,
		req.Header.Get("Origin"),
		middleware.CountryHint(req),
	)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
	return nil
}

// POST /v1/webhooks/stripe
func (r *Router) handleStripeWebhook(w http.ResponseWriter, req *http.Request) error {
	payload, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		return badRequest("unreadable payload")
	}

	if err := r.analysisSvc.HandleWebhook(req.Context(), payload, req.Header.Get("Stripe-Signature")); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	return nil
}

// POST /v1/share
func (r *Router) handleCreateShare(w http.ResponseWriter, req *http.Request) error {
	payload, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		return badRequest("unreadable payload")
	}

	id, err := r.analysisSvc.CreateShare(req.Context(), payload)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
	return nil
}

// GET /v1/share?id=
func (r *Router) handleGetShare(w http.ResponseWriter, req *http.Request) error {
	id := req.URL.Query().Get("id")
	if id == "" {
		return badRequest("id is required")
	}

	payload, err := r.analysisSvc.GetShare(req.Context(), id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
	return nil
}

// POST /v1/reviews
// Body: {"stars": 5, "text": "...", "name": "..."}
// Always answers with {success, error?} so the form can render inline.
func (r *Router) handleSubmitReview(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Stars int    `json:"stars"`
		Text  string `json:"text"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid JSON body")
	}

	err := r.reviewsSvc.Submit(req.Context(),
		middleware.ClientIP(req),
		body.Stars,
		middleware.SanitizeString(body.Text),
		middleware.SanitizeString(body.Name),
	)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, domreview.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": err.Error()})
	case errors.Is(err, domreview.ErrInvalidStars), errors.Is(err, domreview.ErrInvalidText):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	default:
		return err
	}
	return nil
}

// GET /v1/reviews
func (r *Router) handleListReviews(w http.ResponseWriter, req *http.Request) error {
	list, err := r.reviewsSvc.List(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []domreview.Review{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// Package server exposes analysis reports over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ValueScope/internal/analysis"
	"ValueScope/internal/collector"
	"ValueScope/internal/config"
	"ValueScope/internal/currency"
	"ValueScope/internal/model"
)

const requestTimeout = 60 * time.Second

// Analyzer runs one analysis request.
type Analyzer interface {
	Run(ctx context.Context, req model.Request) (*model.Report, error)
}

// Handler serves the API routes.
type Handler struct {
	Analyzer Analyzer
	Rates    analysis.RateTable
	Defaults config.Defaults
	Logger   *zap.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// RatesResponse is the body of GET /api/rates.
type RatesResponse struct {
	Base      string         `json:"base"`
	Source    string         `json:"source"`
	FetchedAt time.Time      `json:"fetched_at"`
	Rates     currency.Rates `json:"rates"`
}

// Router builds the chi router with the standard middleware stack.
func (h Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze/{ticker}", h.Analyze)
		r.Get("/rates", h.CurrentRates)
	})
	return r
}

// New creates an http.Server for addr.
func New(addr string, h Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (h Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze handles GET /api/analyze/{ticker}?ccy=&lang=&years=&initial=&monthly=&start=.
func (h Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().With(zap.String("method", "Analyze"), zap.String("request_id", middleware.GetReqID(r.Context())))

	req, err := h.parseRequest(r)
	if err != nil {
		lang := model.ParseLanguage(r.URL.Query().Get("lang"))
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", analysis.ErrInvalidRequest, err), lang)
		return
	}

	report, err := h.Analyzer.Run(r.Context(), req)
	if err != nil {
		logger.Warn(fmt.Errorf("run analysis: %w", err).Error(), zap.String("ticker", req.Ticker))
		h.writeError(w, statusFor(err), err, req.Language)
		return
	}
	roundReport(report)
	h.writeJSON(w, http.StatusOK, report)
}

// CurrentRates handles GET /api/rates.
func (h Handler) CurrentRates(w http.ResponseWriter, r *http.Request) {
	t := h.Rates.Current(r.Context())
	h.writeJSON(w, http.StatusOK, RatesResponse{
		Base:      currency.Base,
		Source:    t.Source,
		FetchedAt: t.FetchedAt,
		Rates:     t.Rates,
	})
}

func (h Handler) parseRequest(r *http.Request) (model.Request, error) {
	q := r.URL.Query()
	req := h.Defaults.Request(chi.URLParam(r, "ticker"))
	req.Now = time.Now()

	if v := q.Get("ccy"); v != "" {
		if !currency.DefaultRates().Has(v) {
			return req, fmt.Errorf("unsupported currency %q", v)
		}
		req.DisplayCurrency = strings.ToUpper(v)
	}
	if v := q.Get("lang"); v != "" {
		req.Language = model.ParseLanguage(v)
	}
	var err error
	if v := q.Get("years"); v != "" {
		if req.HorizonYears, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("years: %w", err)
		}
	}
	if v := q.Get("initial"); v != "" {
		if req.InitialAmount, err = parseAmount(v); err != nil {
			return req, fmt.Errorf("initial: %w", err)
		}
	}
	if v := q.Get("monthly"); v != "" {
		if req.MonthlyAmount, err = parseAmount(v); err != nil {
			return req, fmt.Errorf("monthly: %w", err)
		}
	}
	if v := q.Get("start"); v != "" {
		if req.StartYear, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("start: %w", err)
		}
	}
	return req, nil
}

// parseAmount accepts finite, non-negative decimals only; ParseFloat alone
// lets "NaN" and "Inf" through.
func parseAmount(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%q is not a finite non-negative amount", v)
	}
	return f, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrTickerNotFound), errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, collector.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h Handler) writeError(w http.ResponseWriter, status int, err error, lang model.Language) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     analysis.UserMessage(err, lang),
		Retryable: analysis.Retryable(err),
	})
}

func (h Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger().Error(fmt.Errorf("encode response: %w", err).Error())
	}
}

func (h Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

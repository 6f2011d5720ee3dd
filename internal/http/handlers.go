package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"alugueis/internal/core"
	applog "alugueis/internal/log"
)

// handleIndex serves the day view and both of its forms.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.renderDashboard(w, r)
	case http.MethodPost:
		s.handleIndexForm(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, present := s.sessions.SelectedDay(r)
	day, err := s.rentals.ResolveDay(raw, present)
	if err != nil {
		s.badDate(w, r, raw, err)
		return
	}

	cctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	dashboard, err := s.rentals.Dashboard(cctx, day)
	if err != nil {
		s.serverError(w, r, "Failed to build dashboard", err, applog.OpAggregate)
		return
	}

	data := struct {
		DataDia   string
		CashLabel string
		core.Dashboard
	}{
		DataDia:   day.String(),
		CashLabel: s.rentals.CashLabel(),
		Dashboard: dashboard,
	}
	s.render(w, r, "index.html", data)
}

// handleIndexForm dispatches on which fields the form carries. A day
// selection wins over a new rental; anything else is ignored.
func (s *Server) handleIndexForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err)
		http.Error(w, "Formato de requisição inválido", http.StatusBadRequest)
		return
	}

	if _, ok := r.PostForm["data_dia"]; ok {
		day := r.PostForm.Get("data_dia")
		id := s.sessions.SetSelectedDay(w, r, day)
		logger.DebugContext(ctx, "Day selected",
			applog.FieldComponent, applog.ComponentSession,
			applog.FieldOperation, applog.OpSelectDay,
			applog.FieldSessionID, id,
			applog.FieldRentalDate, day)
		redirectHome(w, r)
		return
	}

	_, hasAmount := r.PostForm["valor"]
	_, hasMethod := r.PostForm["metodo_pagamento"]
	if !hasAmount || !hasMethod {
		redirectHome(w, r)
		return
	}

	raw, present := s.sessions.SelectedDay(r)
	day, err := s.rentals.ResolveDay(raw, present)
	if err != nil {
		s.badDate(w, r, raw, err)
		return
	}

	cctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	_, err = s.rentals.RecordRental(cctx, day, r.PostForm.Get("valor"), r.PostForm.Get("metodo_pagamento"))
	if errors.Is(err, core.ErrMethodTooLong) {
		logger.WarnContext(ctx, "Payment method too long",
			applog.FieldComponent, applog.ComponentRental,
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err)
		http.Error(w, "Método de pagamento muito longo", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.serverError(w, r, "Failed to record rental", err, applog.OpCreate)
		return
	}
	recordRental(s.appMetrics)
	redirectHome(w, r)
}

// handleFilter renders the rentals dated inside an inclusive range.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	start, end := q.Get("data_inicial"), q.Get("data_final")
	if start == "" || end == "" {
		redirectHome(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()
	report, err := s.rentals.FilterRange(ctx, start, end)
	if errors.Is(err, core.ErrInvalidDate) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Invalid filter range",
			applog.NewFields().
				WithComponent(applog.ComponentHTTP).
				WithOperation(applog.OpFilter).
				WithErrorType(applog.ErrorTypeValidation).
				WithRange(start, end).
				WithError(err).
				ToSlice()...)
		http.Error(w, "Data inválida: use o formato AAAA-MM-DD", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.serverError(w, r, "Failed to filter rentals", err, applog.OpFilter)
		return
	}
	s.render(w, r, "filtrar.html", report)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.rentals.Ping(ctx); err != nil {
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["sessions"] = map[string]any{
		"active": s.sessions.Store().Size(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	rateMetrics := s.rateLimiter.GetMetrics()

	var b strings.Builder
	metric := func(name, help, kind string, value int64) {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "Responses with a 5xx status", "counter", traceMetrics.ServerErrors)
	metric("rentals_recorded_total", "Rentals recorded since startup", "counter", atomic.LoadInt64(&s.appMetrics.rentalsRecorded))
	metric("rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateMetrics.TotalHits)
	metric("rate_limit_active_clients", "Clients tracked by the rate limiter", "gauge", rateMetrics.ClientCount)
	metric("sessions_active", "Sessions held in memory", "gauge", int64(s.sessions.Store().Size()))
	metric("uptime_seconds", "Seconds since startup", "gauge", int64(time.Since(s.appMetrics.uptime).Seconds()))

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// render executes name into a buffer so a failing template yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.serverError(w, r, "Templates not loaded", errors.New("templates not loaded"), applog.OpRender)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.serverError(w, r, "Template execution failed", fmt.Errorf("execute %s: %w", name, err), applog.OpRender)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) badDate(w http.ResponseWriter, r *http.Request, raw string, err error) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Invalid selected day",
		applog.FieldComponent, applog.ComponentSession,
		applog.FieldErrorType, applog.ErrorTypeValidation,
		applog.FieldRentalDate, raw,
		applog.FieldError, err)
	http.Error(w, "Data selecionada inválida: use o formato AAAA-MM-DD", http.StatusBadRequest)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, op string) {
	applog.FromContext(r.Context()).LogError(r.Context(), msg, err, op,
		applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
	http.Error(w, "Erro interno", http.StatusInternalServerError)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

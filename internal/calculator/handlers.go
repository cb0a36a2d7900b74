package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints backed by a session store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "calculator.session.create")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	id, snap, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.create", err.Error(), err, http.StatusServiceUnavailable, w)
		return
	}
	activeSessions.Set(float64(h.store.Len()))

	span.SetAttributes(attribute.String("calculator.session.id", id))
	span.SetStatus(codes.Ok, "")
	observability.LoggerWithTrace(observability.ContextWithSessionID(ctx, id)).
		Info("calculator session created", zap.Int("active_sessions", h.store.Len()))

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: id, Snapshot: snap})
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.store.Get(id)
	if err != nil {
		handlers.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := observability.ContextWithSessionID(r.Context(), id)

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.delete", err.Error(), err, http.StatusNotFound, w)
		return
	}
	activeSessions.Set(float64(h.store.Len()))

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted")

	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys — applies the keys
// in order, creating a child span for every key. Arithmetic failures are
// part of the session's display and do not fail the request.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := observability.ContextWithSessionID(r.Context(), id)

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(attribute.String("calculator.session.id", id)),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	// Reject the whole batch before touching the session.
	keys, err := ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(keys)))

	results := make([]KeyResult, 0, len(keys))
	var snap Snapshot

	err = h.store.Do(id, func(s *Session) error {
		for i, k := range keys {
			results = append(results, h.pressKey(ctx, s, i, k))
		}
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusNotFound, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.display", snap.Display),
		attribute.String("calculator.state", snap.State.String()),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.Int("keys", len(keys)),
		zap.String("state", snap.State.String()),
		zap.String("display", snap.Display),
	)

	handlers.WriteJSON(w, http.StatusOK, KeysResponse{ID: id, Results: results, Session: snap})
}

func (h *Handler) pressKey(ctx context.Context, s *Session, i int, k Key) KeyResult {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d.%s", i, k.Kind),
		trace.WithAttributes(
			attribute.Int("calculator.key.index", i),
			attribute.String("calculator.key.label", k.String()),
			attribute.String("calculator.state.before", s.State().String()),
		),
	)
	defer span.End()

	start := time.Now()
	err := s.Press(k)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("key", k.Kind.String()))
	keysCounter.Add(ctx, 1, attrs)

	res := KeyResult{Key: k.String(), Display: s.Display()}

	if k.Kind == KindEquals {
		evalHistogram.Record(ctx, elapsed, attrs)
		evalCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
		if err == nil && s.State() == Evaluated {
			resultGauge.Record(ctx, *s.Snapshot().AccumulatedOperand, attrs)
		}
	}

	if err != nil {
		var calcErr *Error
		kind := "invalid_key"
		if errors.As(err, &calcErr) {
			kind = calcErr.Kind.String()
		}
		res.Error = kind

		span.RecordError(err)
		span.SetStatus(codes.Error, res.Display)
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "keys"), attribute.String("kind", kind)))

		observability.LoggerWithTrace(ctx).Warn("calculator key failed",
			zap.Int("index", i),
			zap.String("key", res.Key),
			zap.String("display", res.Display),
			zap.Error(err),
		)
		return res
	}

	span.SetAttributes(
		attribute.String("calculator.state.after", s.State().String()),
		attribute.String("calculator.display", res.Display),
	)
	span.SetStatus(codes.Ok, "")
	return res
}

// ---------------------------------------------------------------------------
// Handlers — stateless
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate — reduces a display expression
// left to right without creating a session.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	result, err := Evaluate(req.Expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	evalCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))

	if errors.Is(err, ErrEmptyExpression) {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", DisplayMessage(err), err, http.StatusUnprocessableEntity, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	evalHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	display := FormatNumber(result)
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.Float64("result", result),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Result:     result,
		Display:    display,
	})
}

// Apply handles POST /calculator/apply — resolves a single binary operation
// with the same rules a session uses when chaining.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.apply")
	defer span.End()

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "apply", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, err := ParseOperator(req.Op)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "apply", "unknown operator", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operation", op.String()),
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	result, err := Apply(req.A, op, req.B)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, op.String(), DisplayMessage(err), err, http.StatusUnprocessableEntity, w)
		return
	}

	resultGauge.Record(ctx, result, metric.WithAttributes(attribute.String("operation", op.String())))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", op.String()),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.Float64("result", result),
	)

	handlers.WriteJSON(w, http.StatusOK, ApplyResponse{
		Operation: op.String(),
		A:         req.A,
		B:         req.B,
		Result:    result,
		Display:   FormatNumber(result),
	})
}

package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"calculator-brain/internal/brain"
	"calculator-brain/internal/handlers"
	"calculator-brain/internal/observability"
	"calculator-brain/internal/plot"
	"calculator-brain/internal/session"

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

var (
	// errBadRequest marks client mistakes in request bodies and parameters.
	errBadRequest = errors.New("bad request")
	// errTooLarge marks bodies or programs over the configured limits.
	errTooLarge = errors.New("request too large")
)

// defaultMaxBodyBytes caps request bodies when Options leaves it unset.
const defaultMaxBodyBytes = 1 << 20

// Options tunes a Handler.
type Options struct {
	// MaxPlotSamples bounds the samples query parameter of the plot endpoint.
	MaxPlotSamples int
	// MaxProgramTokens bounds programs sent to evaluate, create and
	// program endpoints when positive.
	MaxProgramTokens int
	// MaxBodyBytes bounds every request body. Zero means 1 MiB.
	MaxBodyBytes int64
	// PlotVariable is the variable plotted when the request names none.
	PlotVariable string
}

// Handler serves the calculator API over a session store.
type Handler struct {
	store *session.Store
	opts  Options
}

// NewHandler returns a Handler backed by store.
func NewHandler(store *session.Store, opts Options) *Handler {
	if opts.PlotVariable == "" {
		opts.PlotVariable = "M"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{store: store, opts: opts}
}

// ---------------------------------------------------------------------------
// Handlers: stateless
// ---------------------------------------------------------------------------

// Symbols handles GET /calculator/symbols
func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, SymbolsResponse{Symbols: brain.New().Symbols()})
}

// Evaluate handles POST /calculator/evaluate. It replays a program on a fresh
// engine, creating a child span for every token.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	h.limitBody(w, r)

	var req EvaluateRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, statusFor(err), w)
		return
	}

	if len(req.Program) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "no tokens provided", fmt.Errorf("program is empty"), http.StatusBadRequest, w)
		return
	}
	if err := h.checkProgram(req.Program); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, statusFor(err), w)
		return
	}

	span.SetAttributes(
		attribute.Int("evaluate.tokens_count", len(req.Program)),
		attribute.Int("evaluate.variables_count", len(req.Variables)),
	)

	b := brain.New()
	if err := b.BindVariables(req.Variables); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, statusFor(err), w)
		return
	}

	start := time.Now()
	steps := make([]EvaluateStep, 0, len(req.Program))

	for i, tok := range req.Program {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.evaluate.step.%d", i),
			trace.WithAttributes(
				attribute.Int("evaluate.step.index", i),
				attribute.String("evaluate.step.kind", tok.Kind.String()),
				attribute.String("evaluate.step.token", tok.String()),
				attribute.Float64("evaluate.step.input", b.Result()),
			),
		)

		b.Feed(tok)

		stepSpan.SetAttributes(
			attribute.Float64("evaluate.step.result", b.Result()),
			attribute.Bool("evaluate.step.partial", b.IsPartialResult()),
		)
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		steps = append(steps, EvaluateStep{
			Token:       tok,
			Result:      brain.Value(b.Result()),
			Description: b.Description(),
			Partial:     b.IsPartialResult(),
		})
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	tokensCounter.Add(ctx, int64(len(req.Program)), attrs)
	resultGauge.Record(ctx, b.Result(), attrs)

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.Float64("result", b.Result()),
		attribute.String("description", b.Description()),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("program evaluated",
		zap.Int("tokens", len(req.Program)),
		zap.Float64("result", b.Result()),
		zap.String("description", b.Description()),
		zap.Bool("partial", b.IsPartialResult()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Result:      brain.Value(b.Result()),
		Description: b.Description(),
		Partial:     b.IsPartialResult(),
		Steps:       steps,
	})
}

// ---------------------------------------------------------------------------
// Handlers: session lifecycle
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions. The body is optional.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	h.limitBody(w, r)

	var req CreateSessionRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "invalid request body", err, statusFor(err), w)
		return
	}
	if err := h.checkProgram(req.Program); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", err.Error(), err, statusFor(err), w)
		return
	}

	sess := h.store.Create()
	state, err := sess.Load(req.Variables, req.Program)
	if err != nil {
		_ = h.store.Delete(state.ID)
		observability.RecordError(ctx, span, logger, errorCounter, "create", err.Error(), err, statusFor(err), w)
		return
	}
	if len(req.Program) > 0 {
		replayCounter.Add(ctx, 1)
	}

	span.SetAttributes(attribute.String("session.id", state.ID))
	span.SetStatus(codes.Ok, "")
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))

	logger.Info("session created",
		zap.String("session_id", state.ID),
		zap.Int("tokens", len(state.Program)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, state)
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "get", func(r *http.Request, sess *session.Session) (any, error) {
		return sess.State(), nil
	})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Handlers: engine input
// ---------------------------------------------------------------------------

// SetOperand handles POST /calculator/sessions/{id}/operand
func (h *Handler) SetOperand(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "operand", func(r *http.Request, sess *session.Session) (any, error) {
		var req OperandRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}

		switch {
		case req.Value != nil && req.Variable != "":
			return nil, fmt.Errorf("%w: set either value or variable, not both", errBadRequest)
		case req.Value != nil:
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.Float64("calculator.operand", *req.Value))
			return sess.SetOperand(*req.Value), nil
		case req.Variable != "":
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("calculator.variable", req.Variable))
			return sess.SetVariableOperand(req.Variable)
		default:
			return nil, fmt.Errorf("%w: value or variable is required", errBadRequest)
		}
	})
}

// PerformOperation handles POST /calculator/sessions/{id}/operation
func (h *Handler) PerformOperation(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "operation", func(r *http.Request, sess *session.Session) (any, error) {
		var req OperationRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		if req.Symbol == "" {
			return nil, fmt.Errorf("%w: symbol is required", errBadRequest)
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("calculator.symbol", req.Symbol))
		return sess.PerformOperation(req.Symbol), nil
	})
}

// Undo handles POST /calculator/sessions/{id}/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "undo", func(r *http.Request, sess *session.Session) (any, error) {
		state, err := sess.Undo()
		if err != nil {
			return nil, err
		}
		replayCounter.Add(r.Context(), 1)
		return state, nil
	})
}

// Clear handles POST /calculator/sessions/{id}/clear. Variables are cleared
// too unless keep_variables=true.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "clear", func(r *http.Request, sess *session.Session) (any, error) {
		keep := false
		if v := r.URL.Query().Get("keep_variables"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: keep_variables: %v", errBadRequest, err)
			}
			keep = parsed
		}

		if keep {
			return sess.Reset(), nil
		}
		return sess.Clear(), nil
	})
}

// ---------------------------------------------------------------------------
// Handlers: program and variables
// ---------------------------------------------------------------------------

// GetProgram handles GET /calculator/sessions/{id}/program
func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "program.get", func(r *http.Request, sess *session.Session) (any, error) {
		return ProgramResponse{Program: sess.State().Program}, nil
	})
}

// SetProgram handles PUT /calculator/sessions/{id}/program
func (h *Handler) SetProgram(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "program.set", func(r *http.Request, sess *session.Session) (any, error) {
		var req ProgramRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		if err := h.checkProgram(req.Program); err != nil {
			return nil, err
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("calculator.program.tokens", len(req.Program)))
		replayCounter.Add(r.Context(), 1)
		tokensCounter.Add(r.Context(), int64(len(req.Program)))
		return sess.Load(req.Variables, req.Program)
	})
}

// SetVariable handles PUT /calculator/sessions/{id}/variables/{name}
func (h *Handler) SetVariable(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "variable.set", func(r *http.Request, sess *session.Session) (any, error) {
		name := chi.URLParam(r, "name")

		var req VariableRequest
		if err := decode(r, &req); err != nil {
			return nil, err
		}
		if req.Value == nil {
			return nil, fmt.Errorf("%w: value is required", errBadRequest)
		}

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("calculator.variable", name),
			attribute.Float64("calculator.variable.value", *req.Value),
		)
		state, err := sess.SetVariable(name, *req.Value)
		if err != nil {
			return nil, err
		}
		replayCounter.Add(r.Context(), 1)
		return state, nil
	})
}

// DeleteVariable handles DELETE /calculator/sessions/{id}/variables/{name}
func (h *Handler) DeleteVariable(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "variable.delete", func(r *http.Request, sess *session.Session) (any, error) {
		replayCounter.Add(r.Context(), 1)
		return sess.DeleteVariable(chi.URLParam(r, "name")), nil
	})
}

// Plot handles GET /calculator/sessions/{id}/plot?from=&to=&samples=&variable=
func (h *Handler) Plot(w http.ResponseWriter, r *http.Request) {
	h.handleSession(w, r, "plot", func(r *http.Request, sess *session.Session) (any, error) {
		req, err := h.plotRequest(r)
		if err != nil {
			return nil, err
		}

		points, err := sess.Plot(req)
		if err != nil {
			return nil, err
		}

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("plot.variable", req.Variable),
			attribute.Int("plot.samples", req.Samples),
		)
		plotSamples.Add(r.Context(), int64(len(points)))
		return PlotResponse{Variable: req.Variable, Points: points}, nil
	})
}

func (h *Handler) plotRequest(r *http.Request) (plot.Request, error) {
	q := r.URL.Query()
	req := plot.Request{
		Variable:   q.Get("variable"),
		Samples:    100,
		MaxSamples: h.opts.MaxPlotSamples,
	}
	if req.Variable == "" {
		req.Variable = h.opts.PlotVariable
	}
	if req.MaxSamples > 0 && req.Samples > req.MaxSamples {
		req.Samples = req.MaxSamples
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"from", &req.From},
		{"to", &req.To},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			return plot.Request{}, fmt.Errorf("%w: %s is required", errBadRequest, f.key)
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return plot.Request{}, fmt.Errorf("%w: %s: %v", errBadRequest, f.key, err)
		}
		*f.dst = parsed
	}

	if v := q.Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return plot.Request{}, fmt.Errorf("%w: samples: %v", errBadRequest, err)
		}
		req.Samples = n
	}
	return req, nil
}

// ---------------------------------------------------------------------------
// Shared session plumbing
// ---------------------------------------------------------------------------

// sessionFunc does the work of one session endpoint and returns the response body.
type sessionFunc func(r *http.Request, sess *session.Session) (any, error)

// handleSession is the shared implementation for every endpoint under
// /calculator/sessions/{id}: it opens a span, resolves the session, runs fn,
// records metrics, logs the outcome and writes the JSON response.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request, opName string, fn sessionFunc) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	sessionID := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.session.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("session.id", sessionID),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess, err := h.store.Get(sessionID)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return
	}

	h.limitBody(w, r)

	start := time.Now()
	body, err := fn(r.WithContext(ctx), sess)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		status := statusFor(err)
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, status, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.String("session_id", sessionID),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	}
	if state, ok := body.(session.State); ok {
		resultGauge.Record(ctx, state.Result.Float64(), attrs)
		span.SetAttributes(
			attribute.Float64("calculator.result", state.Result.Float64()),
			attribute.Bool("calculator.partial", state.Partial),
		)
		fields = append(fields,
			zap.Float64("result", state.Result.Float64()),
			zap.String("description", state.Description),
			zap.Bool("partial", state.Partial),
		)
	}
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session operation completed", fields...)

	handlers.WriteJSON(w, http.StatusOK, body)
}

// limitBody caps the request body at MaxBodyBytes.
func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
}

// checkProgram enforces MaxProgramTokens.
func (h *Handler) checkProgram(tokens []brain.Token) error {
	if h.opts.MaxProgramTokens > 0 && len(tokens) > h.opts.MaxProgramTokens {
		return fmt.Errorf("%w: program has %d tokens, limit %d", errTooLarge, len(tokens), h.opts.MaxProgramTokens)
	}
	return nil
}

// decode reads a JSON body into dst, reporting problems as bad requests and
// oversized bodies as errTooLarge.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: body exceeds %d bytes", errTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid request body: %w", errBadRequest, err)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrEmptyProgram), errors.Is(err, plot.ErrPartialProgram):
		return http.StatusConflict
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, plot.ErrInvalidRange),
		errors.Is(err, plot.ErrTooManySamples), errors.Is(err, brain.ErrInvalidToken),
		errors.Is(err, brain.ErrInvalidVariable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

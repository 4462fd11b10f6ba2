// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/rgehrsitz/bia/internal/cache"
	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/population"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	storeTimeout    = 2 * time.Second
	maxBodySize     = 16 << 20
)

// Server answers validation and projection requests against a static sample.
type Server struct {
	engine    *calculation.ProjectionEngine
	projector *cache.CachedProjector
	sample    []domain.Member
	stats     population.Stats
	log       *logrus.Logger
	srv       *fasthttp.Server
}

// New builds a server. A nil store disables projection caching.
func New(engine *calculation.ProjectionEngine, store cache.Store, sample []domain.Member, log *logrus.Logger) *Server {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		engine:    engine,
		projector: cache.NewCachedProjector(engine, store),
		sample:    sample,
		stats:     population.Describe(sample),
		log:       log,
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "bia",
		MaxRequestBodySize: maxBodySize,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
	}
	return s
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithFields(logrus.Fields{"addr": addr, "sample_size": len(s.sample)}).Info("server starting")
	return s.srv.ListenAndServe(addr)
}

// Serve serves on an existing listener until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handler returns the routed request handler wrapped with request ids and logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.withRequestID(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch path {
	case "/healthz":
		if !requireMethod(ctx, fasthttp.MethodGet) {
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/validate":
		if !requireMethod(ctx, fasthttp.MethodPost) {
			return
		}
		s.handleValidate(ctx)
	case "/v1/projection":
		if !requireMethod(ctx, fasthttp.MethodPost) {
			return
		}
		s.handleProjection(ctx)
	case "/v1/population":
		if !requireMethod(ctx, fasthttp.MethodGet) {
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, s.stats)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found: "+path)
	}
}

func (s *Server) withRequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()

		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetUserValue(requestIDKey, id)
		ctx.Response.Header.Set(requestIDHeader, id)

		s.recoverPanic(ctx, next)

		s.log.WithFields(logrus.Fields{
			"request_id":  id,
			"method":      string(ctx.Method()),
			"path":        string(ctx.Path()),
			"status":      ctx.Response.StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	}
}

// recoverPanic runs next and turns a panic into a 500 response.
func (s *Server) recoverPanic(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID(ctx),
				"panic":      fmt.Sprint(r),
			}).Error("handler panicked")
			ctx.Response.ResetBody()
			writeError(ctx, fasthttp.StatusInternalServerError, "internal server error")
		}
	}()
	next(ctx)
}

func requestID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(requestIDKey).(string)
	return id
}

func requireMethod(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return false
}

type errorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Rule      string `json:"rule,omitempty"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = fasthttp.StatusInternalServerError
		body = []byte(`{"message":"failed to encode response"}`)
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{RequestID: requestID(ctx), Message: message})
}

// writeDomainError maps engine errors onto status codes.
func writeDomainError(ctx *fasthttp.RequestCtx, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, errorResponse{
			RequestID: requestID(ctx),
			Message:   verr.Error(),
			Field:     verr.Field,
			Rule:      verr.RuleName(),
		})
	case errors.Is(err, domain.ErrNonFiniteResult):
		writeJSON(ctx, fasthttp.StatusUnprocessableEntity, errorResponse{
			RequestID: requestID(ctx),
			Message:   err.Error(),
			Rule:      "non_finite_result",
		})
	case errors.Is(err, domain.ErrEmptyPopulation):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

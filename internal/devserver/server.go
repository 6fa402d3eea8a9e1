package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vstore/pkg/metrics"
)

const (
	tracerName = "github.com/vango-dev/vstore/internal/devserver"

	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records session metrics on collector and serves gatherer on
// /metrics. Without it /metrics is not routed.
func WithMetrics(collector *metrics.Collector, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = collector
		s.gatherer = gatherer
	}
}

// WithTracer sets the tracer for request and message spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// Server serves an App.
type Server struct {
	app      App
	logger   *slog.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates a Server for app.
func New(app App, opts ...Option) *Server {
	s := &Server{
		app:      app,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "devserver")
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.traceRequests)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the number of open WebSocket sessions.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.request_id", middleware.GetReqID(r.Context())),
			))
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := newSession(uuid.NewString(), s.app, s.logger)
	defer sess.close()

	reply := sess.render()
	if reply.Type == TypeError {
		http.Error(w, reply.Error, http.StatusInternalServerError)
		return
	}
	s.recordRender()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writePage(w, s.app.Store().Name(), reply.HTML); err != nil {
		s.logger.Error("write page", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.Sessions(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.recordWSError("upgrade")
		return
	}
	defer conn.Close()

	sess := newSession(uuid.NewString(), s.app, s.logger)
	s.track(sess)
	defer s.untrack(sess)
	sess.logger.Info("session opened", "remote", r.RemoteAddr)

	if err := s.send(conn, sess.render()); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Warn("websocket read failed", "error", err)
				s.recordWSError("read")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.recordWSError("decode")
			if s.send(conn, errorMessage(err)) != nil {
				return
			}
			continue
		}

		if s.send(conn, s.dispatch(r.Context(), sess, msg)) != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, sess *session, msg ClientMessage) ServerMessage {
	_, span := s.tracer.Start(ctx, "devserver.message",
		trace.WithAttributes(
			attribute.String("session.id", sess.id),
			attribute.String("message.type", string(msg.Type)),
		))
	defer span.End()

	reply := sess.handle(msg)
	if reply.Type == TypeError {
		span.SetStatus(codes.Error, reply.Error)
		sess.logger.Debug("message rejected", "type", msg.Type, "error", reply.Error)
	} else {
		s.recordRender()
	}
	return reply
}

func (s *Server) send(conn *websocket.Conn, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Warn("websocket write failed", "error", err)
		s.recordWSError("write")
		return err
	}
	return nil
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordSessionOpen()
	}
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
	if s.metrics != nil {
		s.metrics.RecordSessionClose()
	}
	sess.logger.Info("session closed")
}

func (s *Server) recordRender() {
	if s.metrics != nil {
		s.metrics.RecordRender()
	}
}

func (s *Server) recordWSError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/application/service"
	"github.com/TemirB/orders-cache/internal/domain"
	"github.com/TemirB/orders-cache/internal/observability"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type OrderQuerier interface {
	GetOrder(ctx context.Context, uid string) (domain.Order, service.LookupStats, bool)
	Size() int
}

type snapshotter interface {
	Snapshot() observability.Snapshot
}

const shutdownTimeout = 5 * time.Second

var orderPage = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order {{.UID}}</title></head>
<body>
<h1>{{.UID}}</h1>
<pre>{{.Document}}</pre>
</body>
</html>
`))

type Server struct {
	service OrderQuerier
	router  chi.Router
	logger  *zap.Logger
	metrics observability.Metrics

	ShutdownTimeout time.Duration
}

func New(service OrderQuerier, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		service:         service,
		logger:          logger,
		router:          chi.NewRouter(),
		metrics:         metrics,
		ShutdownTimeout: shutdownTimeout,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		ServerTimingApp(s.metrics),
	)

	s.router.Get("/healthz", s.health)
	s.router.Get("/order/{order_uid}", s.getOrder)
	if snap, ok := s.metrics.(snapshotter); ok {
		s.router.Get("/debug/metrics", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, snap.Snapshot())
		})
	}
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "order_uid")

	order, st, ok := s.service.GetOrder(r.Context(), uid)

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "source", 0, st.Source())
	w.Header().Set("X-Source", st.Source())
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)

	if !ok {
		http.Error(w, "no order with this id", http.StatusNotFound)
		return
	}

	if wantsHTML(r) {
		s.writeHTML(w, order)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"orders": s.service.Size(),
	})
}

// wantsHTML is true when the client lists text/html before JSON, as
// browsers do.
func wantsHTML(r *http.Request) bool {
	accept := strings.ToLower(r.Header.Get("Accept"))
	html := strings.Index(accept, "text/html")
	if html < 0 {
		return false
	}
	js := strings.Index(accept, "application/json")
	return js < 0 || html < js
}

func (s *Server) writeHTML(w http.ResponseWriter, order domain.Order) {
	doc, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		s.logger.Error("Error while rendering order", zap.String("order_uid", order.UID()), zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := orderPage.Execute(w, struct {
		UID      string
		Document string
	}{order.UID(), string(doc)}); err != nil {
		s.logger.Warn("Error while writing order page", zap.String("order_uid", order.UID()), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Listen binds addr. It is separate from Serve so a bind failure surfaces
// before anything else is started.
func (s *Server) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Serve blocks until ctx is cancelled (nil) or the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := s.Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Handler() http.Handler { return s.router }

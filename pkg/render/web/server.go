// Package web serves charts to the browser: an HTML page drawing on a canvas,
// JSON, CSV and PNG endpoints, and a websocket announcing newly published charts.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/jpillora/backoff"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/render/raster"
	"github.com/raykavin/miniplot/pkg/storage"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

const shutdownTimeout = 5 * time.Second

// Server publishes charts and serves them over HTTP
type Server struct {
	sync.Mutex
	port          int
	debug         bool
	store         core.ChartStore
	ownsStore     bool
	ids           *set.LinkedHashSetINT64
	raster        *raster.Rasterizer
	hub           *hub
	indexHTML     *template.Template
	scriptContent string
	lastUpdate    time.Time
	listener      net.Listener
	ready         chan struct{}
	closeOnce     sync.Once
	closeErr      error
	log           logger.Logger
}

// Option configures a Server
type Option func(*Server)

// WithPort sets the HTTP port, 0 picks a free one
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDebug serves the chart script without minification
func WithDebug() Option {
	return func(s *Server) {
		s.debug = true
	}
}

// WithStore keeps published charts in store instead of an in-memory database.
// Charts already in the store are listed too.
func WithStore(store core.ChartStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithOwnedStore is WithStore for a store the server closes when it stops
func WithOwnedStore(store storage.Store) Option {
	return func(s *Server) {
		s.store = store
		s.ownsStore = true
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithRaster sets the rasterizer behind /chart.png
func WithRaster(r *raster.Rasterizer) Option {
	return func(s *Server) {
		s.raster = r
	}
}

// NewServer creates a chart server listening on port 8080 by default
func NewServer(options ...Option) (*Server, error) {
	s := &Server{
		port:  8080,
		ids:   set.NewLinkedHashSetINT64(),
		ready: make(chan struct{}),
		log:   logger.Nop(),
	}

	for _, option := range options {
		option(s)
	}

	if s.raster == nil {
		s.raster = raster.New(raster.WithLogger(s.log))
	}

	if s.store == nil {
		store, err := storage.FromMemory()
		if err != nil {
			return nil, err
		}
		s.store = store
		s.ownsStore = true
	}

	records, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list stored charts: %w", err)
	}
	for _, record := range records {
		s.ids.Add(record.ID)
	}

	s.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read chart.js: %w", err)
	}

	transpiled := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !s.debug,
		MinifyIdentifiers: !s.debug,
		MinifyWhitespace:  !s.debug,
	})
	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", transpiled.Errors)
	}
	s.scriptContent = string(transpiled.Code)

	s.hub = newHub(s.log, s.latest)
	return s, nil
}

// Publish stores the chart and notifies connected browsers
func (s *Server) Publish(chart core.Chart) (int64, error) {
	id, err := s.store.Save(chart)
	if err != nil {
		return 0, err
	}

	s.Lock()
	s.ids.Add(id)
	s.lastUpdate = time.Now()
	s.Unlock()

	s.hub.broadcast(message{
		Type:    "chart",
		Payload: map[string]any{"id": id, "title": chart.Options.Title},
	})

	s.log.WithFields(map[string]any{
		"id":    id,
		"title": chart.Options.Title,
	}).Debug("chart published")

	return id, nil
}

// Render publishes the chart and serves it until ctx is done
func (s *Server) Render(ctx context.Context, chart core.Chart) error {
	if _, err := s.Publish(chart); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Handler returns the HTTP routes of the viewer
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/assets/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("/assets/chart.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, s.scriptContent)
	})

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/charts", s.handleCharts)
	mux.HandleFunc("/data", s.handleData)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/chart.png", s.handlePNG)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)
	mux.HandleFunc("/", s.handleIndex)

	return mux
}

// Serve listens on the configured port until ctx is done, then shuts down gracefully.
// A Server can only be served once.
func (s *Server) Serve(ctx context.Context) error {
	s.Lock()
	if s.listener != nil {
		s.Unlock()
		return errors.New("chart server already running")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.Unlock()
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.listener = listener
	s.Unlock()
	close(s.ready)

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve(listener)
	}()

	go func() {
		if err := s.WaitReady(ctx); err == nil {
			s.log.Infof("Chart available at %s", s.URL())
		}
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return errors.Join(err, s.Close())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.hub.close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(fmt.Errorf("failed to shut down chart server: %w", err), s.Close())
	}
	return s.Close()
}

// Close disconnects websocket clients and closes the store when the server owns it.
// Serve calls it on return, a Server that is never served must be closed by its user.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.hub.close()
		if closer, ok := s.store.(io.Closer); ok && s.ownsStore {
			s.closeErr = closer.Close()
		}
	})
	return s.closeErr
}

// URL returns the base address of a serving Server, empty before Serve listens
func (s *Server) URL() string {
	s.Lock()
	defer s.Unlock()

	if s.listener == nil {
		return ""
	}
	addr := s.listener.Addr().(*net.TCPAddr)
	return fmt.Sprintf("http://localhost:%d", addr.Port)
}

// WaitReady blocks until Serve answers health checks or ctx is done
func (s *Server) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	client := &http.Client{Timeout: time.Second}
	retry := &backoff.Backoff{
		Min: 10 * time.Millisecond,
		Max: 500 * time.Millisecond,
	}

	for {
		resp, err := client.Get(s.URL() + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}
}

// latest returns the most recently published chart id, 0 when there is none
func (s *Server) latest() int64 {
	s.Lock()
	defer s.Unlock()

	var id int64
	for value := range s.ids.Iter() {
		id = value
	}
	return id
}

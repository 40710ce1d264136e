package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jpalmerr/peercheck/internal/results"
)

const (
	// shutdownTimeout bounds graceful shutdown once the server context ends.
	shutdownTimeout = 5 * time.Second

	// readHeaderTimeout protects against slow-header clients.
	readHeaderTimeout = 10 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Gensyn Peer ID Tracker"
)

// Fetcher looks up a batch of peer identifiers.
//
// *peercheck.Checker is the implementation used when serving. FetchAll must
// block until every identifier has a result.
type Fetcher interface {
	FetchAll(ctx context.Context, ids []string) *results.ResultSet
}

// Server handles HTTP requests for the lookup form.
type Server struct {
	fetcher    Fetcher
	port       int
	httpServer *http.Server
	page       *template.Template
	title      string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - f: Fetcher used for form submissions
//   - port: TCP port to listen on
//   - assets: filesystem containing the page template
//   - pageName: path of the page template inside assets
//   - title: page title (defaults to "Gensyn Peer ID Tracker" if empty)
//   - logger: logger for server events
//
// Returns an error if the page template cannot be parsed. The server is not
// started until [Server.Start] is called.
func NewServer(f Fetcher, port int, assets fs.FS, pageName, title string, logger *slog.Logger) (*Server, error) {
	page, err := template.ParseFS(assets, pageName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	if title == "" {
		title = defaultTitle
	}

	return &Server{
		fetcher: f,
		port:    port,
		page:    page,
		title:   title,
		logger:  logger,
	}, nil
}

// Handler returns the router serving "/".
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.handleForm)
	router.POST("/", s.handleSubmit)
	router.PanicHandler = s.handlePanic
	return router
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the listener is bound. The server
// runs until ctx is cancelled, then shuts down gracefully with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		// request contexts derive from ctx, so shutdown also cancels
		// in-flight lookups
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handlePanic turns a handler panic into a 500 instead of a dropped connection.
func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request, v interface{}) {
	s.logger.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", fmt.Sprintf("%v", v))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

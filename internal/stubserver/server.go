package stubserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server serves the waste-management HTTP contract over in-memory data.
type Server struct {
	data   *Data
	logger *zap.Logger
}

// New constructs a Server over the given dataset. A nil logger is
// replaced by a no-op one.
func New(data *Data, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{data: data, logger: logger}
}

// Router builds the HTTP handler implementing the backend contract.
//
// Routes:
//
//	POST   /auth/login
//	DELETE /auth/logout
//	GET    /dumpsters
//	PUT    /dumpsters/{id}/dump_info
//	POST   /dumpsters
//	GET    /dumpsters/{id}/usage
//	GET    /dumpsters/status/postal_code
//	GET    /recyclingPlants
//	GET    /recyclingPlants/{name}/capacity
//	POST   /recyclingPlants/assignDumpster
//
// Everything except /auth/login requires a valid Token header.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(s.withRequestLogging)

	r.Post("/auth/login", s.handleLogin)

	// Protected group: requires a valid session token
	r.Group(func(r chi.Router) {
		r.Use(s.tokenAuth)

		r.Delete("/auth/logout", s.handleLogout)

		r.Route("/dumpsters", func(r chi.Router) {
			r.Get("/", s.handleListDumpsters)
			r.Post("/", s.handleCreateDumpster)
			r.Get("/status/postal_code", s.handleByPostalCode)
			r.Put("/{id}/dump_info", s.handleUpdateFill)
			r.Get("/{id}/usage", s.handleUsage)
		})

		r.Route("/recyclingPlants", func(r chi.Router) {
			r.Get("/", s.handleListPlants)
			r.Post("/assignDumpster", s.handleAssign)
			r.Get("/{name}/capacity", s.handleCapacity)
		})
	})

	return r
}

// tokenAuth rejects requests whose Token header is absent or not a
// currently issued token. Logout is inside this middleware on purpose:
// revoking an already-revoked token is a 401, which the client treats as
// a failed remote logout while still clearing its local session.
func (s *Server) tokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Token")
		if token == "" || !s.data.validToken(token) {
			http.Error(w, "invalid or missing token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestLogging logs each request with its latency and the caller's
// correlation ID.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get("X-Request-Id")),
		)
	})
}

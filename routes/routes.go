package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/jwt-auth-api/app"
	"github.com/upb/jwt-auth-api/handlers"
	"github.com/upb/jwt-auth-api/middleware"
	"github.com/upb/jwt-auth-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	requestTimeout := cfg.Server.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger, cfg.IsDevelopment()))
	r.Use(chimw.Timeout(requestTimeout))

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.HealthChecker(), deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	protected := handlers.NewProtectedHandler(deps.ProfileService, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.HandleAPIInfo)

		r.With(deps.AuthMiddleware.OptionalAuth).Get("/welcome", handlers.HandleWelcome)

		r.Route("/protected", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/profile", protected.HandleProfile)
			r.Get("/dashboard", protected.HandleDashboard)
			r.Post("/update-profile", protected.HandleUpdateProfile)
			r.Get("/settings", protected.HandleSettings)
			r.Post("/logout", protected.HandleLogout)
		})
	})

	// Unknown routes fall through to static files, then to a JSON 404
	r.NotFound(staticOrNotFound(cfg.Server.StaticDir))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// staticOrNotFound serves GET requests for files that exist under dir
// ("/" maps to index.html) and answers everything else with a JSON 404.
func staticOrNotFound(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dir != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
			name := path.Clean("/" + r.URL.Path)
			if name == "/" {
				name = "/index.html"
			}
			file := filepath.Join(dir, filepath.FromSlash(name))
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				http.ServeFile(w, r, file)
				return
			}
		}
		_ = utils.WriteNotFound(w, "Route not found")
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/middleware"
)

// RouterConfig holds the handlers and middleware the router is built from
type RouterConfig struct {
	Pages     *PageHandler
	Movies    *MovieHandler
	TMDB      *TMDBHandler
	Auth      *AuthHandler
	Favorites *FavoritesHandler
	Renderer  *Renderer

	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	Health         http.HandlerFunc
	Logger         *zap.Logger
}

// NewRouter wires every route of the web client
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/static/*", StaticHandler())
	r.Handle("/metrics", promhttp.Handler())
	if cfg.Health != nil {
		r.Get("/health", cfg.Health)
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthMiddleware.LoadSession)

		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			cfg.Renderer.RenderError(w, req, http.StatusNotFound, "Page not found")
		})

		// Public pages
		r.Get("/", cfg.Pages.Home)
		r.Get("/movie/{id}", cfg.Pages.MovieDetails)
		r.Get("/new-releases", cfg.Pages.NewReleases)
		r.Get("/search", cfg.Pages.Search)
		r.Post("/reconcile/{tmdbId}", cfg.Movies.Reconcile)

		// Auth
		r.Get("/login", cfg.Auth.LoginPage)
		r.Post("/login", cfg.Auth.Login)
		r.Get("/signup", cfg.Auth.SignupPage)
		r.Post("/signup", cfg.Auth.Signup)
		r.Post("/logout", cfg.Auth.Logout)

		// Pages behind login
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.RequireAuth)

			r.Get("/add-movie", cfg.Movies.AddForm)
			r.Post("/add-movie", cfg.Movies.Create)
			r.Get("/edit-movie/{id}", cfg.Movies.EditForm)
			r.Post("/edit-movie/{id}", cfg.Movies.Update)

			r.Get("/favorites", cfg.Favorites.List)
			r.Post("/favorites", cfg.Favorites.Add)
			r.Post("/favorites/{id}/delete", cfg.Favorites.Remove)
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}

			r.Get("/movies", cfg.Movies.List)
			r.Get("/movies/{id}", cfg.Movies.Get)

			r.Get("/tmdb/search", cfg.TMDB.Search)
			r.Get("/tmdb/movie/{id}", cfg.TMDB.GetMovie)
			r.Get("/tmdb/now-playing", cfg.TMDB.NowPlaying)

			r.Group(func(r chi.Router) {
				r.Use(cfg.AuthMiddleware.RequireAuthAPI)

				r.Patch("/movies/{id}", cfg.Movies.Patch)
				r.Post("/movies/import/{tmdbId}", cfg.Movies.Import)
			})
		})
	})

	return r
}

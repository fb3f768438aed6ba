package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"notemint/internal/http/handlers"
	"notemint/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Geo(app.CountryLookup),
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/token-ids", app.TokenID)
	r.Get("/v1/tokens/{token_id}/bundle", app.TokenBundle)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthJWT(app.JWTSecret),
			middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		)
		r.Route("/v1/mint", func(r chi.Router) {
			r.Post("/notes", app.MintNote)
			r.Post("/social-notes", app.MintSocialNote)
			r.Post("/jobs", app.EnqueueMint)
			r.Get("/jobs/{id}", app.MintJobStatus)
		})
	})

	return r
}

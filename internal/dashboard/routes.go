package dashboard

import (
	"net/http"
	"time"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/cache"
	"github.com/PrairieWatch/PW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func SetupRoutes(cfg Config, c *cache.Client) http.Handler {
	conf = cfg
	respCache = c

	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// The map client reads these without a session.
	r.Get("/api/geojson/", GeoJSONHandler)
	r.Get("/api/search/", SearchHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/", DashboardHandler)
		r.With(middleware.RateLimitMiddleware(rate.NewLimiter(rate.Every(2*time.Second), 5))).
			Post("/upload/", UploadHandler)
		r.Post("/report/", ReportHandler)
	})

	return r
}

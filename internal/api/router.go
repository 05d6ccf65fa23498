package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/metrics"
	"github.com/mark31d/OlympusAirDiary/internal/store"
	"github.com/mark31d/OlympusAirDiary/internal/tips"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(
	backend store.Backend,
	diaryStore *diary.Store,
	catalog *tips.Catalog,
	collector *metrics.Collector,
	corsOrigins []string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(Instrument(collector))

	// Handlers
	healthH := NewHealthHandler(backend, diaryStore)
	memoryH := NewMemoryHandler(diaryStore)
	calendarH := NewCalendarHandler(diaryStore, nil)
	rewardsH := NewRewardsHandler(diaryStore, catalog)
	eventsH := NewEventsHandler(diaryStore, logger)
	summaryH := NewSummaryHandler(diaryStore)

	r.Get("/health", healthH.Health)
	r.Method("GET", "/metrics", collector.Handler())

	r.Route("/memories", func(r chi.Router) {
		r.Get("/", memoryH.List)
		r.Post("/", memoryH.Create)
		r.Get("/{id}", memoryH.Get)
		r.Patch("/{id}", memoryH.Update)
		r.Delete("/{id}", memoryH.Delete)
		r.Get("/{id}/share", memoryH.Share)
	})

	r.Get("/days/{date}", memoryH.ByDate)
	r.Get("/calendar", calendarH.Month)
	r.Get("/summary", summaryH.Get)

	r.Route("/rewards", func(r chi.Router) {
		r.Get("/", rewardsH.Get)
		r.Post("/points", rewardsH.AddPoints)
		r.Post("/spend", rewardsH.Spend)
	})

	r.Route("/tips", func(r chi.Router) {
		r.Get("/", rewardsH.ListTips)
		r.Get("/{id}", rewardsH.GetTip)
		r.Post("/{id}/purchase", rewardsH.PurchaseTip)
	})

	r.Get("/events", eventsH.Stream)

	return r
}

package routes

import (
	"github.com/dachrisch/leaguesphere/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	gamedayHandler *handlers.GamedayHandler,
	gameHandler *handlers.GameHandler,
	teamHandler *handlers.TeamHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/gamedays", func(r chi.Router) {
		r.Get("/", gamedayHandler.ListHandler)
		r.Get("/{gamedayID}", gamedayHandler.GetByIDHandler)
		r.Delete("/{gamedayID}", gamedayHandler.DeleteHandler)

		// Табличные представления игрового дня
		r.Get("/{gamedayID}/schedule", gamedayHandler.ScheduleHandler)
		r.Get("/{gamedayID}/standings", gamedayHandler.StandingsHandler)
		r.Get("/{gamedayID}/unresolved", gamedayHandler.UnresolvedHandler)
		r.Get("/{gamedayID}/resolve", gamedayHandler.ResolvePlaceHandler)

		// Дизайнер и публикация
		r.Put("/{gamedayID}/designer", gamedayHandler.SaveDesignerHandler)
		r.Post("/{gamedayID}/publish", gamedayHandler.PublishHandler)
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/{gameID}", gameHandler.GetByIDHandler)
		r.Get("/{gameID}/resolve", gameHandler.ResolveHandler)
		r.Put("/{gameID}/results", gameHandler.UpdateResultsHandler)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListHandler)
		r.Post("/", teamHandler.CreateHandler)
		r.Get("/{teamID}", teamHandler.GetByIDHandler)
		r.Post("/{teamID}/logo", teamHandler.UploadLogoHandler)
		r.Delete("/{teamID}/logo", teamHandler.DeleteLogoHandler)
	})
}

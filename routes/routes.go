package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/league-tracker/docs"
	"github.com/Dosada05/league-tracker/handlers"
	"github.com/Dosada05/league-tracker/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options carries the router settings that come from configuration.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	leagueHandler *handlers.LeagueHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// The websocket route stays outside the timeout group; connections are long lived.
	router.Get("/ws/leagues/{league}", webSocketHandler.ServeWs)

	router.Route("/leagues", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/", leagueHandler.ListLeagues)
		r.Post("/", leagueHandler.CreateLeague)

		r.Route("/{league}", func(r chi.Router) {
			r.Get("/", leagueHandler.GetLeague)
			r.Delete("/", leagueHandler.CloseLeague)
			r.Post("/save", leagueHandler.SaveLeague)
			r.Post("/load", leagueHandler.LoadLeague)
			r.Post("/rounds/next", leagueHandler.AdvanceRound)
			r.Get("/standings", leagueHandler.Standings)
			r.Get("/rankings", leagueHandler.PlayerRankings)

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamHandler.ListTeams)
				r.Post("/", teamHandler.CreateTeam)
				r.Get("/{teamID}", teamHandler.GetTeam)
				r.Post("/{teamID}/players", teamHandler.AddPlayer)
			})

			r.Get("/players", teamHandler.ListPlayers)
			r.Get("/players/{playerID}", teamHandler.GetPlayer)

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", matchHandler.ListMatches)
				r.Post("/", matchHandler.CreateMatch)
				r.Put("/{matchID}/score", matchHandler.RecordScore)
				r.Put("/{matchID}/outcome", matchHandler.RecordOutcome)
				r.Post("/{matchID}/players", matchHandler.RecordPlayerResult)
			})
		})
	})
}

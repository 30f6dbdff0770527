package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/courtside/tournament-server/handlers"
	"github.com/courtside/tournament-server/middleware"
	"github.com/courtside/tournament-server/models"
)

// SetupRoutes wires all HTTP endpoints. Reads on non-draft tournaments are
// public; everything that mutates tournament or player state requires the
// admin or coach role.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	secret := []byte(jwtSecret)

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/dashboard", dashboardHandler.Overview)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{playerID}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleCoach))

			r.Post("/", playerHandler.Create)
			r.Put("/{playerID}", playerHandler.Update)
			r.Post("/{playerID}/deactivate", playerHandler.Deactivate)
			r.Post("/{playerID}/reactivate", playerHandler.Reactivate)
			r.Post("/{playerID}/avatar", playerHandler.UploadAvatar)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(secret))

			r.Get("/", tournamentHandler.List)
			r.Get("/{tournamentID}", tournamentHandler.Get)
			r.Get("/{tournamentID}/standings", tournamentHandler.Standings)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(secret))
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleCoach))

			r.Post("/", tournamentHandler.Create)
			r.Patch("/{tournamentID}", tournamentHandler.UpdateDetails)
			r.Put("/{tournamentID}/participants", tournamentHandler.SetParticipants)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)

			r.Post("/{tournamentID}/start", tournamentHandler.Start)
			r.Post("/{tournamentID}/matches/{matchID}/result", tournamentHandler.SubmitResult)
			r.Post("/{tournamentID}/knockout", tournamentHandler.GenerateKnockout)
			r.Post("/{tournamentID}/rounds/advance", tournamentHandler.AdvanceRound)
			r.Post("/{tournamentID}/finish", tournamentHandler.Finish)
			r.Post("/{tournamentID}/standings/resolve-tie", tournamentHandler.ResolveGroupTie)
		})
	})
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ksu-sports/tournament-backend/config"
	"github.com/ksu-sports/tournament-backend/handlers"
	"github.com/ksu-sports/tournament-backend/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes mounts the full API surface. Reads are public; every write
// goes through Authenticate plus RequireAdmin.
func SetupRoutes(
	router *chi.Mux,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	venueHandler *handlers.VenueHandler,
	matchHandler *handlers.MatchHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(cfg.JWTSecretKey))
	adminOnly := func(r chi.Router) chi.Router {
		return r.With(authenticate, middleware.RequireAdmin)
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/api", func(api chi.Router) {
		mountAPI(api, authenticate, adminOnly,
			authHandler, userHandler, tournamentHandler, teamHandler,
			playerHandler, venueHandler, matchHandler, statsHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}

func mountAPI(
	router chi.Router,
	authenticate func(http.Handler) http.Handler,
	adminOnly func(r chi.Router) chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	venueHandler *handlers.VenueHandler,
	matchHandler *handlers.MatchHandler,
	statsHandler *handlers.StatsHandler,
) {
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.With(authenticate).Get("/user", authHandler.GetCurrentUser)
	})

	router.Route("/users", func(r chi.Router) {
		admin := adminOnly(r)
		admin.Get("/{id}", userHandler.GetByID)
		admin.Put("/{id}", userHandler.UpdateProfile)
		admin.Put("/{id}/role", userHandler.ChangeRole)
		admin.Delete("/{id}", userHandler.Delete)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.GetByID)
		r.Get("/{id}/standings", tournamentHandler.GetStandings)
		r.Get("/{id}/matches/recent", statsHandler.RecentMatches)
		r.Get("/{id}/matches/upcoming", statsHandler.UpcomingMatches)
		r.Get("/{id}/teams/{teamID}/roster", playerHandler.ListRoster)

		admin := adminOnly(r)
		admin.Post("/", tournamentHandler.Create)
		admin.Put("/{id}", tournamentHandler.Update)
		admin.Delete("/{id}", tournamentHandler.Delete)
		admin.Post("/{id}/teams", tournamentHandler.AssignTeam)
		admin.Delete("/{id}/teams/{teamID}", tournamentHandler.RemoveTeam)
		admin.Post("/{id}/fixtures", tournamentHandler.GenerateFixtures)
		admin.Post("/{id}/logo", tournamentHandler.UploadLogo)
		admin.Delete("/{id}/logo", tournamentHandler.DeleteLogo)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.GetByID)

		admin := adminOnly(r)
		admin.Post("/", teamHandler.Create)
		admin.Put("/{id}", teamHandler.Update)
		admin.Delete("/{id}", teamHandler.Delete)
		admin.Post("/{id}/logo", teamHandler.UploadLogo)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{id}", playerHandler.GetByID)

		admin := adminOnly(r)
		admin.Post("/", playerHandler.Create)
		admin.Put("/{id}", playerHandler.Update)
		admin.Delete("/{id}", playerHandler.Delete)
		admin.Post("/{id}/roster", playerHandler.AssignToRoster)
		admin.Delete("/{id}/roster", playerHandler.RemoveFromRoster)
	})

	router.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.List)
		r.Get("/{id}", venueHandler.GetByID)

		admin := adminOnly(r)
		admin.Post("/", venueHandler.Create)
		admin.Put("/{id}", venueHandler.Update)
		admin.Delete("/{id}", venueHandler.Delete)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{id}", matchHandler.GetByID)

		admin := adminOnly(r)
		admin.Post("/", matchHandler.Create)
		admin.Put("/{id}/result", matchHandler.RecordResult)
		admin.Delete("/{id}", matchHandler.Delete)
		admin.Post("/{id}/goals", matchHandler.AddGoalEvent)
		admin.Post("/{id}/shootout", matchHandler.AddPenaltyKick)
		admin.Post("/{id}/bookings", matchHandler.AddBooking)
		admin.Post("/{id}/remind", matchHandler.SendReminders)
	})

	router.Route("/stats", func(r chi.Router) {
		r.Get("/top-scorers", statsHandler.TopScorers)
		r.Get("/red-cards", statsHandler.RedCardLeaders)
		r.Get("/tournament/{id}", statsHandler.TournamentDetail)
	})
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jdl-league/constructor-system/handlers"
	"github.com/jdl-league/constructor-system/middleware"
)

// SetupRoutes настраивает все HTTP-маршруты приложения.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	corsOrigins []string,
	playerHandler *handlers.PlayerHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	classChangeHandler *handlers.ClassChangeHandler,
	permissionHandler *handlers.TeamPermissionHandler,
	adminHandler *handlers.AdminHandler,
	settingHandler *handlers.SystemSettingHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api", func(api chi.Router) {
		api.Use(auth.Authenticate)

		api.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.ListPlayers)
			r.Get("/{playerID}", playerHandler.GetPlayer)
			r.Get("/{playerID}/class-changes", classChangeHandler.ListPlayerClassChanges)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", "manager"))
				r.Post("/", playerHandler.CreatePlayer)
				r.Put("/{playerID}", playerHandler.UpdatePlayer)
			})
		})

		api.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListTeams)
			r.Get("/{teamID}", teamHandler.GetTeam)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
			r.Get("/{teamID}/permissions", permissionHandler.ListTeamPermissions)
			r.Get("/{teamID}/permissions/history", permissionHandler.ListTeamPermissionHistory)
		})

		api.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListTournaments)
			r.Get("/{tournamentID}", tournamentHandler.GetTournament)
			r.Post("/{tournamentID}/entries", tournamentHandler.CreateEntry)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", tournamentHandler.CreateTournament)
				r.Put("/{tournamentID}", tournamentHandler.UpdateTournament)
			})
		})

		api.Route("/class-changes", func(r chi.Router) {
			r.Post("/", classChangeHandler.RequestClassChange)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/{historyID}/approval", classChangeHandler.ApproveClassChange)
			})
		})

		api.Route("/permissions", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", permissionHandler.AddPermission)
			r.Put("/{permissionID}", permissionHandler.UpdatePermission)
			r.Delete("/{permissionID}", permissionHandler.RemovePermission)
		})

		api.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.ListUnread)
			r.Post("/{notificationID}/read", notificationHandler.MarkAsRead)
		})

		api.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{userID}/admin", adminHandler.SetAdmin)
			r.Put("/users/{userID}/lock", adminHandler.SetLocked)
			r.Post("/integrity-check", adminHandler.RunIntegrityCheck)

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingHandler.ListSettings)
				r.Post("/", settingHandler.CreateSetting)
				r.Get("/{key}", settingHandler.GetSetting)
				r.Put("/{key}", settingHandler.UpdateSetting)
				r.Delete("/{key}", settingHandler.DeleteSetting)
			})
		})
	})
}

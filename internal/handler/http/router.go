package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/medirota/roster-backend-go/internal/handler/http/middleware"
	"github.com/medirota/roster-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	staffHandler StaffHandler,
	leaveHandler LeaveHandler,
	calendarHandler CalendarHandler,
	rosterHandler RosterHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "roster-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", staffHandler.List)
				r.Post("/", staffHandler.Create)
				r.Get("/{id}", staffHandler.Get)
				r.Put("/{id}", staffHandler.Update)
				r.Delete("/{id}", staffHandler.Deactivate)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/", leaveHandler.List)
				r.Post("/", leaveHandler.Apply)
				r.Get("/gate/{staffID}", leaveHandler.CheckGate)

				// Held applications are an admin decision
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/on-hold", leaveHandler.ListOnHold)
					r.Post("/{id}/resolve", leaveHandler.Resolve)
				})
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Route("/holidays", func(r chi.Router) {
					r.Get("/", calendarHandler.ListHolidays)
					r.Post("/", calendarHandler.AddHoliday)
					r.Delete("/{id}", calendarHandler.DeleteHoliday)
				})
				r.Route("/rosters", func(r chi.Router) {
					r.Get("/", calendarHandler.ListRosters)
					r.Put("/", calendarHandler.UpsertRoster)
				})

				// Requirement config is admin-only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Route("/combinations", func(r chi.Router) {
						r.Get("/", calendarHandler.ListCombinations)
						r.Post("/", calendarHandler.CreateCombination)
						r.Delete("/{id}", calendarHandler.DeleteCombination)
					})
					r.Route("/ratios", func(r chi.Router) {
						r.Get("/", calendarHandler.ListRatios)
						r.Put("/", calendarHandler.ReplaceRatios)
					})
					r.Route("/dimensions", func(r chi.Router) {
						r.Get("/", calendarHandler.ListDimensions)
						r.Put("/", calendarHandler.SetDimension)
					})
				})
			})

			r.Route("/periods", func(r chi.Router) {
				r.Get("/", rosterHandler.ListPeriods)
				r.Post("/", rosterHandler.CreatePeriod)
				r.Get("/{id}", rosterHandler.GetPeriod)
				r.Post("/{id}/generate", rosterHandler.Generate)
				r.Get("/{id}/assignments", rosterHandler.GetAssignments)
				r.Get("/{id}/issues", rosterHandler.GetIssues)
				r.Get("/{id}/scores", rosterHandler.GetScores)
			})
		})
	})
	return r
}

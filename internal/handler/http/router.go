package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	shiftHandler ShiftTemplateHandler,
	assignmentHandler AssignmentHandler,
	attendanceHandler AttendanceHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
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

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/shift-templates", func(r chi.Router) {
				r.Post("/", shiftHandler.Create)
				r.Get("/", shiftHandler.List)
				r.Get("/resolve", shiftHandler.Resolve)
				r.Get("/{id}", shiftHandler.Get)
				r.Put("/{id}", shiftHandler.Update)
				r.Delete("/{id}", shiftHandler.Delete)
			})

			r.Route("/shift-assignments", func(r chi.Router) {
				r.Post("/", assignmentHandler.Create)
				r.Get("/", assignmentHandler.List)
				r.Get("/{id}", assignmentHandler.Get)
				r.Put("/{id}", assignmentHandler.Update)
				r.Delete("/{id}", assignmentHandler.Delete)
			})

			r.Route("/shift-history", func(r chi.Router) {
				r.Get("/{employeeID}", assignmentHandler.GetShiftHistory)
				r.Post("/sync", assignmentHandler.SyncShiftChange)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/import", attendanceHandler.Import)
				r.Get("/", attendanceHandler.List)
			})
		})
	})
	return r
}

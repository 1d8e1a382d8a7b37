package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskr-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// APIPrefix is the path prefix of every versioned endpoint.
const APIPrefix = "/api/v1"

// healthPaths are excluded from request logging unless enabled in config.
var healthPaths = []string{"/health", APIPrefix + "/health"}

// setupRouter creates the router with middleware and every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// The request id must exist before anything logs, and the request logger
	// sits outside Recoverer so recovered panics are logged as 500s.
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(apiMiddleware.NewRequestLogger(apiMiddleware.RequestLoggerOptions{
		LogHealthChecks: app.config.Server.LogHealthChecks,
		HealthPaths:     healthPaths,
	}))
	r.Use(apiMiddleware.Recoverer)

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	errs := api.NewErrorNormalizer(app.config.Server.IsDevelopment())
	maxBody := app.config.Server.MaxBodyBytes

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, errs, maxBody, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, errs, maxBody)
	adminHandler := api.NewAdminHandler(app.statsService, errs)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", api.Health)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", api.Health)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/admin/login", authHandler.AdminLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			r.With(authMiddleware.RequireRole(domain.RoleAdmin)).
				Get("/admin/dashboard", adminHandler.Dashboard)
		})
	})

	return r
}

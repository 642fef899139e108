package rest

import (
	"database/sql"
	"log/slog"

	"github.com/VladimirTheNoob/Budget-tracker/internal/auth"
	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	"github.com/VladimirTheNoob/Budget-tracker/internal/goal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/notification"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
	"github.com/VladimirTheNoob/Budget-tracker/internal/role"
	"github.com/VladimirTheNoob/Budget-tracker/internal/task"
	"github.com/VladimirTheNoob/Budget-tracker/internal/transport/middleware"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth         *auth.Handler
	Task         *task.Handler
	Employee     *employee.Handler
	Role         *role.Handler
	Goal         *goal.Handler
	Notification *notification.Handler
}

// RegisterAllRoutes wires every route onto the router. The auth surface is
// public; everything under /api runs behind the access-control chain, with
// per-route resource/action gates.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	// Auth routes stay outside the access-control chain: they are how a
	// caller becomes authenticated in the first place.
	router.Route("/auth", func(sr chi.Router) {
		sr.Post("/login", h.Auth.Login)
		sr.Post("/refresh", h.Auth.RefreshToken)
		sr.Post("/logout", h.Auth.Logout)
		sr.Get("/status", h.Auth.Status)
		sr.Get("/google", h.Auth.GoogleLogin)
		sr.Get("/google/callback", h.Auth.GoogleCallback)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(h.Auth.Authenticate)

		r.Route("/tasks", func(tr chi.Router) {
			tr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceTasks, rbac.ActionRead))
				gr.Get("/", h.Task.ListTasks)
				gr.Get("/{id}", h.Task.GetTask)
			})
			tr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceTasks, rbac.ActionWrite))
				gr.Post("/", h.Task.CreateTask)
				gr.Put("/{id}", h.Task.UpdateTask)
				gr.Delete("/{id}", h.Task.DeleteTask)
				gr.Post("/bulk", h.Task.BulkImport)
			})
		})

		r.Group(func(gr chi.Router) {
			gr.Use(h.Auth.Require(rbac.ResourceEmployees, rbac.ActionRead))
			gr.Get("/employees", h.Employee.ListEmployees)
		})
		r.Group(func(gr chi.Router) {
			gr.Use(h.Auth.Require(rbac.ResourceEmployees, rbac.ActionWrite))
			gr.Post("/employee-departments", h.Employee.BulkUpsert)
			gr.Put("/employee-departments", h.Employee.BulkUpsert)
		})

		r.Route("/roles", func(rr chi.Router) {
			rr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceRoles, rbac.ActionRead))
				gr.Get("/", h.Role.ListAssignments)
			})
			rr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceRoles, rbac.ActionWrite))
				gr.Put("/", h.Role.UpdateRole)
			})
		})

		r.Route("/department-values", func(dr chi.Router) {
			dr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceGoals, rbac.ActionRead))
				gr.Get("/", h.Goal.ListGoals)
			})
			dr.Group(func(gr chi.Router) {
				gr.Use(h.Auth.Require(rbac.ResourceGoals, rbac.ActionWrite))
				gr.Put("/", h.Goal.SetGoals)
			})
		})

		r.Group(func(gr chi.Router) {
			gr.Use(h.Auth.Require(rbac.ResourceNotifications, rbac.ActionWrite))
			gr.Post("/notifications/send", h.Notification.SendNotification)
		})
	})
}

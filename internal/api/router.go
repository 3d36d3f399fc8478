package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/finance-tracker/internal/api/handlers"
	"github.com/baharkarakas/finance-tracker/internal/auth"
	"github.com/baharkarakas/finance-tracker/internal/config"
	"github.com/baharkarakas/finance-tracker/internal/metrics"
	"github.com/baharkarakas/finance-tracker/internal/middleware"
	"github.com/baharkarakas/finance-tracker/internal/services"
)

func NewRouter(cfg config.Config, svc *services.Services, tm *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(svc.Users, tm, cfg.Env)
	budgetH := &handlers.BudgetHandler{Budgets: svc.Budgets, Repair: svc.Repair}
	expenseH := &handlers.ExpenseHandler{Expenses: svc.Expenses}
	alertH := &handlers.AlertHandler{Alerts: svc.Alerts}
	notifH := &handlers.NotificationHandler{Feed: svc.Notifications}
	authMW := middleware.NewAuthMiddleware(tm, cfg.Env)

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)
		r.Post("/auth/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			// ---------- budgets ----------
			r.Get("/budgets", budgetH.List)
			r.Post("/budgets", budgetH.Create)
			r.Get("/budgets/{id}", budgetH.Get)
			r.Put("/budgets/{id}", budgetH.Update)
			r.Delete("/budgets/{id}", budgetH.Delete)
			r.Post("/budgets/{id}/repair", budgetH.RepairOne)

			// ---------- expenses ----------
			r.Get("/expenses", expenseH.List)
			r.Post("/expenses", expenseH.Create)
			r.Get("/expenses/{id}", expenseH.Get)
			r.Put("/expenses/{id}", expenseH.Update)
			r.Delete("/expenses/{id}", expenseH.Delete)

			// ---------- alerts ----------
			r.Get("/alerts", alertH.List)
			r.Post("/alerts", alertH.Create)
			r.Get("/alerts/{id}", alertH.Get)
			r.Put("/alerts/{id}", alertH.Update)
			r.Delete("/alerts/{id}", alertH.Delete)

			// ---------- notifications ----------
			r.Get("/notifications", notifH.List)
			r.Put("/notifications", notifH.MarkRead)
			r.Get("/notifications/unread", notifH.Unread)
		})
	})

	return r
}

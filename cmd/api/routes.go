package main

import (
	"log"
	"net/http"

	httphandlers "centavo/internal/interfaces/http"
	"centavo/internal/shared/config"
	"centavo/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/refresh", deps.AuthHandler.HandleRefresh)
	mux.HandleFunc("POST /api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.TokenIssuer)

	mux.Handle("GET /api/users", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleList)))
	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))

	mux.Handle("/api/accounts/", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccounts)))
	mux.Handle("/api/accounts/{id}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountByID)))
	mux.Handle("/api/accounts/{id}/members", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleMembers)))
	mux.Handle("/api/accounts/{id}/members/{userID}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleRemoveMember)))
	mux.Handle("/api/accounts/{id}/entries", authMiddleware(http.HandlerFunc(deps.EntryHandler.HandleEntries)))

	mux.Handle("/api/budgets/", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgets)))
	mux.Handle("/api/budgets/{id}", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleBudgetByID)))
	mux.Handle("/api/budgets/{id}/share", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleShare)))
	mux.Handle("/api/budgets/{id}/categories", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleCategories)))
	mux.Handle("/api/categories/{id}/transactions", authMiddleware(http.HandlerFunc(deps.BudgetHandler.HandleTransactions)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Apply telemetry middleware when enabled
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
		log.Println("Telemetry middleware enabled (otelhttp + request metrics)")
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}

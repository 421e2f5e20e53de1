package routes

import (
	"net/http"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/app"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/handler"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	users := handler.NewUserHandler(app.UserService)
	clients := handler.NewClientHandler(app.ClientService)
	documents := handler.NewDocumentHandler(app.DocumentService, app.ClientService, app.Cfg.MaxUploadSize)
	todos := handler.NewTodoHandler(app.TodoService, app.ClientService)
	dashboard := handler.NewDashboardHandler(app.ClientService, app.DocumentService, app.TodoService)
	audit := handler.NewAuditHandler(app.AuditService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth - credential endpoints are rate limited per IP
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateLimitWindow)

	mux.HandleFunc("POST /auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))

	// Invite redemption: the link signs the user in, setup creates the
	// profile. Setup only needs a session; the profile does not exist yet.
	mux.HandleFunc("GET /auth/invite/{token}", rateLimiter(auth.VerifyInvite))
	mux.HandleFunc("POST /auth/setup", middleware.RequireSession(auth.Setup))
	mux.HandleFunc("GET /auth/me", middleware.RequireSession(auth.Me))

	// ============================================================================
	// API ROUTES
	// ============================================================================

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboard.Summary))

	// Users and invites (admin)
	mux.HandleFunc("GET /api/users", middleware.RequireCapability(access.ActionManageUsers, users.List))
	mux.HandleFunc("PATCH /api/users/{id}/active", middleware.RequireCapability(access.ActionManageUsers, users.SetActive))
	mux.HandleFunc("DELETE /api/users/{id}", middleware.RequireCapability(access.ActionManageUsers, users.Delete))
	mux.HandleFunc("GET /api/professionals", middleware.RequireCapability(access.ActionManageClients, users.Professionals))

	mux.HandleFunc("GET /api/invites", middleware.RequireCapability(access.ActionManageInvites, users.ListInvites))
	mux.HandleFunc("POST /api/invites", middleware.RequireCapability(access.ActionManageInvites, users.CreateInvite))
	mux.HandleFunc("DELETE /api/invites/{email}", middleware.RequireCapability(access.ActionManageInvites, users.DeleteInvite))

	// Clients
	mux.HandleFunc("GET /api/clients", middleware.RequireCapability(access.ActionViewClients, clients.List))
	mux.HandleFunc("GET /api/clients/{id}", middleware.RequireCapability(access.ActionViewClients, clients.Get))
	mux.HandleFunc("GET /api/me/client", middleware.RequireAuth(clients.My))
	mux.HandleFunc("POST /api/clients", middleware.RequireCapability(access.ActionManageClients, clients.Create))
	mux.HandleFunc("PUT /api/clients/{id}", middleware.RequireCapability(access.ActionManageClients, clients.Update))
	mux.HandleFunc("PUT /api/clients/{id}/professionals", middleware.RequireCapability(access.ActionManageClients, clients.AssignProfessionals))
	mux.HandleFunc("DELETE /api/clients/{id}", middleware.RequireCapability(access.ActionManageClients, clients.Delete))

	// Documents
	mux.HandleFunc("POST /api/clients/{id}/documents", middleware.RequireCapability(access.ActionUploadDocuments, documents.Upload))
	mux.HandleFunc("GET /api/clients/{id}/documents", middleware.RequireAuth(documents.ByClient))
	mux.HandleFunc("PATCH /api/documents/{id}/status", middleware.RequireCapability(access.ActionReviewDocuments, documents.SetStatus))
	mux.HandleFunc("GET /api/documents/{id}/download", middleware.RequireAuth(documents.Download))
	mux.HandleFunc("DELETE /api/documents/{id}", middleware.RequireCapability(access.ActionDeleteDocuments, documents.Delete))

	// Todos
	mux.HandleFunc("POST /api/clients/{id}/todos", middleware.RequireCapability(access.ActionCreateTodos, todos.Create))
	mux.HandleFunc("GET /api/clients/{id}/todos", middleware.RequireAuth(todos.ByClient))
	mux.HandleFunc("POST /api/todos/{id}/resolve", middleware.RequireCapability(access.ActionResolveTodos, todos.Resolve))

	// Audit log (admin)
	mux.HandleFunc("GET /api/audit", middleware.RequireCapability(access.ActionViewAuditLog, audit.Recent))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection(app.Cfg.IsProduction()),
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)
}

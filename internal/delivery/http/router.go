package http

import (
	"net/http"

	"pharmalink/internal/delivery/http/handler"
	"pharmalink/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	demandeHandler  *handler.DemandeHandler
	gardeHandler    *handler.GardeHandler
	auditLogHandler *handler.AuditLogHandler
	realtimeHandler *handler.RealtimeHandler
	metricsHandler  http.Handler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	demandeHandler *handler.DemandeHandler,
	gardeHandler *handler.GardeHandler,
	auditLogHandler *handler.AuditLogHandler,
	realtimeHandler *handler.RealtimeHandler,
	metricsHandler http.Handler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		demandeHandler:  demandeHandler,
		gardeHandler:    gardeHandler,
		auditLogHandler: auditLogHandler,
		realtimeHandler: realtimeHandler,
		metricsHandler:  metricsHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check and metrics
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	if r.metricsHandler != nil {
		api.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/sign-up", r.authHandler.SignUp).Methods(http.MethodPost)
	auth.HandleFunc("/sign-in", r.authHandler.SignIn).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/sign-out", r.authHandler.SignOut).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/profile", r.authHandler.CompleteProfile).Methods(http.MethodPut)

	// Demandes; /stats is registered before /{id}
	protected.HandleFunc("/demandes", r.demandeHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/demandes/stats", r.demandeHandler.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/demandes/{id}", r.demandeHandler.Get).Methods(http.MethodGet)
	protected.Handle("/demandes", middleware.RequireClient(http.HandlerFunc(r.demandeHandler.Create))).Methods(http.MethodPost)
	protected.Handle("/demandes/{id}/pickup", middleware.RequireAgent(http.HandlerFunc(r.demandeHandler.Pickup))).Methods(http.MethodPost)
	protected.Handle("/demandes/{id}/propositions", middleware.RequireAgent(http.HandlerFunc(r.demandeHandler.Complete))).Methods(http.MethodPost)

	// On-duty pharmacies
	protected.HandleFunc("/gardes/today", r.gardeHandler.ListToday).Methods(http.MethodGet)
	protected.HandleFunc("/gardes/week", r.gardeHandler.ListWeek).Methods(http.MethodGet)
	protected.Handle("/gardes/week", middleware.RequireAgent(http.HandlerFunc(r.gardeHandler.DefineWeek))).Methods(http.MethodPost)
	protected.Handle("/gardes/week", middleware.RequireAgent(http.HandlerFunc(r.gardeHandler.DeleteCurrentWeek))).Methods(http.MethodDelete)
	protected.Handle("/pharmacies", middleware.RequireAgent(http.HandlerFunc(r.gardeHandler.ListPharmacies))).Methods(http.MethodGet)

	// Audit trail of the caller
	protected.HandleFunc("/audit-logs", r.auditLogHandler.GetMyAuditLogs).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	protected.HandleFunc("/realtime", r.realtimeHandler.Serve).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

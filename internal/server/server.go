package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/homehub/internal/handler"
	"github.com/dukerupert/homehub/internal/middleware"
	"github.com/dukerupert/homehub/internal/service"
	ws "github.com/dukerupert/homehub/internal/websocket"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	svc            *service.Service
	hub            *ws.Hub
	authH          *handler.AuthHandler
	householdH     *handler.HouseholdHandler
	taskH          *handler.TaskHandler
	scheduleH      *handler.ScheduleHandler
	rewardH        *handler.RewardHandler
	invitationH    *handler.InvitationHandler
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	trustProxy     bool
	logger         *slog.Logger
}

type Option func(*Server)

// WithTrustProxy keys auth rate limits on CF-Connecting-IP and
// X-Forwarded-For. Enable it only behind a proxy that sets those headers.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) { s.trustProxy = trust }
}

// New wires the HTTP handlers around svc. allowedOrigins lists extra host
// patterns accepted on websocket upgrades.
func New(svc *service.Service, allowedOrigins []string, logger *slog.Logger, opts ...Option) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	s := &Server{
		svc:            svc,
		hub:            hub,
		authH:          handler.NewAuthHandler(svc, logger.With("component", "auth")),
		householdH:     handler.NewHouseholdHandler(svc, hub, logger.With("component", "household")),
		taskH:          handler.NewTaskHandler(svc, hub, logger.With("component", "task")),
		scheduleH:      handler.NewScheduleHandler(svc, hub, logger.With("component", "schedule")),
		rewardH:        handler.NewRewardHandler(svc, hub, logger.With("component", "reward")),
		invitationH:    handler.NewInvitationHandler(svc, hub, logger.With("component", "invitation")),
		rateLimiter:    middleware.NewRateLimiter(),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(s.svc)

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("POST /api/auth/signup", s.rateLimited("signup", s.authH.SignUp))
	outerMux.Handle("POST /api/auth/login", s.rateLimited("login", s.authH.Login))

	// Signing out needs a session but not a household.
	outerMux.Handle("POST /api/auth/logout", requireAuth(http.HandlerFunc(s.authH.Logout)))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", requireAuth(middleware.ResolveHousehold(s.svc)(protectedMux)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(prefix string, h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.KeyByIP(prefix, s.trustProxy), authRateLimit, authRateWindow)(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/me", s.householdH.Me)
	mux.HandleFunc("PUT /api/me/settings", s.householdH.UpdateSettings)

	mux.HandleFunc("GET /api/household", s.householdH.Get)
	mux.HandleFunc("PUT /api/household", s.householdH.Rename)
	mux.HandleFunc("GET /api/household/members", s.householdH.Members)
	mux.HandleFunc("POST /api/household/leave", s.householdH.Leave)
	mux.HandleFunc("GET /api/leaderboard", s.householdH.Leaderboard)
	mux.HandleFunc("GET /api/dashboard", s.householdH.Dashboard)

	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)

	mux.HandleFunc("GET /api/schedule", s.scheduleH.Week)
	mux.HandleFunc("POST /api/schedule", s.scheduleH.Create)
	mux.HandleFunc("GET /api/schedule/days/{day}", s.scheduleH.Day)
	mux.HandleFunc("DELETE /api/schedule/{id}", s.scheduleH.Delete)

	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("POST /api/rewards", s.rewardH.Create)
	mux.HandleFunc("GET /api/rewards/redeemed", s.rewardH.Redeemed)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)

	mux.HandleFunc("GET /api/invitations", s.invitationH.List)
	mux.HandleFunc("POST /api/invitations", s.invitationH.Create)
	mux.HandleFunc("POST /api/invitations/{id}/accept", s.invitationH.Accept)
	mux.HandleFunc("POST /api/invitations/{id}/reject", s.invitationH.Reject)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.allowedOrigins, s.logger.With("component", "websocket")))
}

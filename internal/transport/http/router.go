package http

import (
	"net/http"

	"github.com/auth-api-nosql/internal/application/recovery"
	"github.com/auth-api-nosql/internal/application/session"
	"github.com/auth-api-nosql/internal/application/user"
	"github.com/auth-api-nosql/internal/config"
	"github.com/auth-api-nosql/internal/transport/http/handler"
	appmiddleware "github.com/auth-api-nosql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	userSvc := user.NewService(user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Events:   deps.Events,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo: deps.UserRepo,
		Registry: deps.TokenRepo,
		Tokens:   deps.JWTProvider,
	})
	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		UserRepo:  deps.UserRepo,
		ResetRepo: deps.ResetRepo,
		Registry:  deps.TokenRepo,
		Mailer:    deps.Mailer,
		Events:    deps.Events,
		OTPTTL:    cfg.OTPTTL,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	resetH := handler.NewPasswordResetHandler(recoverySvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Post("/register", userH.Register)
		r.Post("/login", sessionH.Login)
		r.Post("/token", sessionH.Refresh)
		r.Delete("/logout", sessionH.Logout)
		r.Post("/reset-password", resetH.Request)
		r.Post("/validate-otp", resetH.Confirm)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users", userH.List)
		})
	})

	return r
}

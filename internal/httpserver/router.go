package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/httpserver/handlers"
	"talktracker/internal/mail"
)

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func rateLimiter(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, 15*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests, please try again later"}`))
		}),
	)
}

func NewRouter(db *gorm.DB, lg *zap.SugaredLogger, mailer *mail.Mailer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(rateLimiter(envInt("API_RATE_LIMIT", 100)))

		api.Post("/register", handlers.Register(db, lg))
		api.With(rateLimiter(envInt("LOGIN_RATE_LIMIT", 5))).
			Post("/login", handlers.Login(db, lg))
		api.Post("/logout", handlers.Logout(db, lg))
		api.Get("/auth/status", handlers.AuthStatus(db, lg))
		api.Post("/request-password-reset", handlers.RequestPasswordReset(db, lg, mailer))
		api.Post("/reset-password", handlers.ResetPassword(db, lg))
		api.Get("/validate-reset-token/{token}", handlers.ValidateResetToken(db, lg))
		api.Get("/therapist/interactions/{userId}", handlers.TherapistInteractions(db, lg))

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireSession(db))
			protected.Post("/change-password", handlers.ChangePassword(db, lg))
			protected.Get("/interactions", handlers.ListInteractions(db, lg))
			protected.Post("/interactions", handlers.CreateInteraction(db, lg))
			protected.Put("/interactions/{id}", handlers.UpdateInteraction(db, lg))
			protected.Delete("/interactions/{id}", handlers.DeleteInteraction(db, lg))
			protected.Get("/stats", handlers.Stats(db, lg))
			protected.Get("/insights", handlers.Insights(db, lg))
			protected.Post("/share-links", handlers.CreateShareLink(db, lg))
			protected.Get("/share-links", handlers.ListShareLinks(db, lg))
			protected.Delete("/share-links/{id}", handlers.RevokeShareLink(db, lg))
			protected.Get("/activity", handlers.MyActivity(db, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		r.Get("/therapist", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(dir, "therapist.html"))
		})
		r.Handle("/*", http.FileServer(http.Dir(dir)))
	}
	return r
}

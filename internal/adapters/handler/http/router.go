package http

import (
	"net/http"

	"github.com/clipstream/api/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	userHandler *UserHandler,
	authHandler *AuthHandler,
	channelHandler *ChannelHandler,
	tokens ports.TokenService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(tokens))
				r.Get("/me", userHandler.GetMe)
				r.Patch("/me", userHandler.UpdateMe)
				r.Patch("/me/avatar", userHandler.UpdateAvatar)
				r.Patch("/me/cover-image", userHandler.UpdateCoverImage)
				r.Get("/history", userHandler.WatchHistory)
				r.Post("/history/{videoID}", userHandler.RecordWatch)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(tokens))
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/channels", func(r chi.Router) {
			r.With(OptionalAuth(tokens)).Get("/{handle}", channelHandler.Profile)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(tokens))
				r.Post("/{handle}/subscribe", channelHandler.Subscribe)
				r.Delete("/{handle}/subscribe", channelHandler.Unsubscribe)
			})
		})
	})

	return r
}

package delivery

import (
	"github.com/go-chi/chi/v5"
	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
)

func RegisterRoutes(r chi.Router, hAuth *AuthHandler, auth ports.AuthService, hAudio *AudioHandler) {

	// public
	r.Post("/api/register", hAuth.Register)
	r.Post("/api/login", hAuth.Login)
	r.Post("/api/logout", hAuth.Logout)

	// everything touching audio requires a token
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Post("/api/upload-audio", hAudio.Upload)
		r.Post("/api/transcribe/{file_id}", hAudio.Transcribe)
		r.Get("/api/audio/{file_id}", hAudio.Download)
		r.Get("/api/recordings", hAudio.List)
		r.Get("/api/recordings/{file_id}", hAudio.Get)
	})
}

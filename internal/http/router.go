// http собирает REST-роутер valet-service на chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"github.com/pribylovaa/valet/internal/auth"
	"github.com/pribylovaa/valet/internal/http/handlers"
	"github.com/pribylovaa/valet/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger        *slog.Logger
	Timeout       time.Duration
	BasePath      string // например, "/api/v1"; пустой — роуты на корне.
	CORSOrigins   []string
	MaxPhotoBytes int64
}

// NewRouter собирает http.Handler: общие мидлвары, CORS, затем Auth и маршруты API.
func NewRouter(profiles profilesv1.ProfilesServiceServer, verifier *auth.Verifier, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования: request_id попадает в логгер
		middleware.Logging(opts.Logger),
		middleware.Timeout(opts.Timeout),
	)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID, "Location"},
		MaxAge:         300,
	}))

	h := handlers.New(profiles, opts.MaxPhotoBytes)

	api := chi.NewRouter()
	api.Use(middleware.Auth(verifier))
	registerRoutes(api, h)

	if opts.BasePath != "" && opts.BasePath != "/" {
		root.Mount(opts.BasePath, api)
		return root
	}

	root.Mount("/", api)
	return root
}

// registerRoutes — единая точка регистрации REST-эндпоинтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// собственный профиль
	r.Get("/me/profile", h.GetSelfProfile)
	r.Put("/me/profile", h.SaveSelfProfile)

	// близкие
	r.Get("/profiles", h.ListProfiles)
	r.Post("/profiles", h.CreateProfile)
	r.Get("/profiles/{id}", h.GetProfile)
	r.Put("/profiles/{id}", h.UpdateProfile)
	r.Delete("/profiles/{id}", h.DeleteProfile)
	r.Get("/profiles/{id}/gift-ideas", h.GiftIdeas)

	r.Get("/birthdays/upcoming", h.UpcomingBirthdays)

	// фотографии
	r.Get("/photos", h.ListPhotos)
	r.Post("/photos", h.UploadPhoto)
	r.Delete("/photos", h.DeletePhoto)
}

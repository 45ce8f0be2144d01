package routes

import (
	"net/http"
	"strings"

	"github.com/Dosada05/pickleball-ladder/docs"
	"github.com/Dosada05/pickleball-ladder/handlers"
	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Match     *handlers.MatchHandler
	Share     *handlers.ShareHandler
	Schedule  *handlers.ScheduleHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	AuthLimiter    *middleware.RateLimiter
	// UploadsDir is served under UploadsPrefix when avatars are stored locally.
	UploadsDir    string
	UploadsPrefix string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(opts.JWTSecret))

	router.Get("/healthz", h.Health.Healthz)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.UploadsDir != "" {
		prefix := "/" + strings.Trim(opts.UploadsPrefix, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(opts.UploadsDir)))
		router.Get(prefix+"/*", fs.ServeHTTP)
	}

	// Зрители подключаются без токена: id матча знает только тот, кому его дали
	router.Get("/ws/matches/{id}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r.Use(opts.AuthLimiter.Handler)
			}
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Get("/schedules/{numPlayers}", h.Schedule.GetSchedule)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/users/profile", func(r chi.Router) {
				r.Get("/", h.User.GetProfile)
				r.Put("/", h.User.UpdateProfile)
				r.Post("/avatar", h.User.UploadAvatar)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Post("/", h.Match.CreateMatch)
				r.Post("/resume", h.Match.ResumeMatch)
				r.Get("/setup", h.Match.GetSavedSetup)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Match.GetMatch)
					r.Delete("/", h.Match.DeleteMatch)
					r.Post("/start", h.Match.StartMatch)
					r.Put("/scores", h.Match.SetScore)
					r.Put("/names/{slot}", h.Match.SetName)
					r.Post("/suggestion/accept", h.Match.AcceptSuggestion)
					r.Post("/suggestion/dismiss", h.Match.DismissSuggestion)
					r.Post("/submit", h.Match.Submit)
					r.Post("/new", h.Match.NewMatch)
					r.Get("/share", h.Share.GetShare)
					r.Post("/share/email", h.Share.EmailResults)
				})
			})
		})
	})
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHandler(gameHandler *GameHandler, themeHandler *ThemeHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", themeHandler.ListThemes)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", gameHandler.CreateGame)

			r.Route("/{chatID}", func(r chi.Router) {
				r.Get("/", gameHandler.GetGame)
				r.Delete("/", gameHandler.CancelGame)
				r.Post("/theme", gameHandler.SelectTheme)
				r.Post("/answers", gameHandler.SubmitAnswer)
				r.Post("/close-answers", gameHandler.CloseAnswers)
				r.Post("/votes", gameHandler.CastVote)
				r.Post("/close-voting", gameHandler.CloseVoting)
			})
		})

		// Private-channel events arrive without a chat; the engine routes
		// them to the session the user participates in.
		r.Post("/answers", gameHandler.SubmitAnswerDirect)
		r.Post("/votes", gameHandler.CastVoteDirect)
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	pollHandler *PollHandler,
	voteHandler *VoteHandler,
	resultsHandler *ResultsHandler,
	userHandler *UserHandler,
	identity *Identity,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/polls", func(r chi.Router) {
			r.With(identity.Optional).Get("/", pollHandler.ListPolls)
			r.With(identity.Required).Post("/", pollHandler.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.With(identity.Optional).Get("/", pollHandler.GetPoll)
				r.With(identity.Required).Put("/", pollHandler.UpdatePoll)
				r.With(identity.Required).Patch("/", pollHandler.UpdatePoll)
				r.With(identity.Required).Delete("/", pollHandler.DeletePoll)

				r.Get("/results", resultsHandler.GetResults)
				r.With(identity.Required).Post("/vote/{choiceID}", voteHandler.CastVote)
				r.With(identity.Required).Get("/my-vote", voteHandler.MyVote)
			})
		})

		r.With(identity.Required).Get("/my-polls", pollHandler.MyPolls)
		r.With(identity.Required).Get("/me", userHandler.GetMe)
	})

	return r
}

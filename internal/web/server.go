package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/duell/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handlers{svc: s, tpl: loadTemplates()}
	s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "", "") })

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Post("/game/import", h.importSave)
	r.Post("/game/load", h.load)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/help", h.help)
		r.Post("/round", h.round)
		r.Post("/save", h.save)
		r.Post("/resume", h.resume)
		r.Get("/export", h.export)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
	})
	return r
}

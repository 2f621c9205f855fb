package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Get("/symbols", h.Symbols)
		r.Post("/evaluate", h.Evaluate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/operand", h.SetOperand)
				r.Post("/operation", h.PerformOperation)
				r.Post("/undo", h.Undo)
				r.Post("/clear", h.Clear)
				r.Get("/program", h.GetProgram)
				r.Put("/program", h.SetProgram)
				r.Put("/variables/{name}", h.SetVariable)
				r.Delete("/variables/{name}", h.DeleteVariable)
				r.Get("/plot", h.Plot)
			})
		})
	})
}

package quotes

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/pricing/preview", h.PricePreview)

	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Show)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Put("/status", h.UpdateStatus)
			r.Post("/duplicate", h.Duplicate)

			r.Get("/versions", h.ListVersions)
			r.Get("/versions/{version}", h.ShowVersion)
			r.Post("/versions/{version}/restore", h.Restore)

			r.Post("/items", h.AddItem)
			r.Put("/items/{itemID}", h.UpdateItem)
			r.Delete("/items/{itemID}", h.RemoveItem)
		})
	})
}

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"DemoShop/pkg/kit"
)

type Server struct {
	Catalog *Catalog
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)
	r.Get("/featured", s.featured)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"cause": err.Error()})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Find(q))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": raw})
		return
	}

	p, ok := s.Catalog.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Categories())
}

func (s *Server) featured(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Featured())
}

func parseQuery(r *http.Request) (Query, error) {
	v := r.URL.Query()
	q := Query{
		Category: v.Get("category"),
		Text:     v.Get("q"),
	}
	if q.Category == "all" {
		q.Category = ""
	}

	for _, b := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"min", &q.MinPrice},
		{"max", &q.MaxPrice},
	} {
		raw := v.Get(b.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Query{}, err
		}
		*b.dst = &d
	}
	return q, nil
}

package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"DemoShop/pkg/kit"
)

type Server struct {
	Cart    *Manager
	Log     *zap.Logger
	Metrics *kit.Metrics
}

func (s *Server) Register(r chi.Router) {
	r.Route("/cart", func(rr chi.Router) {
		rr.Get("/", s.view)
		rr.Delete("/", s.clear)
		rr.Post("/items", s.add)
		rr.Put("/items/{id}", s.setQuantity)
		rr.Delete("/items/{id}", s.remove)
	})
}

type addReq struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type setReq struct {
	Quantity int `json:"quantity"`
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	v, err := s.Cart.View(r.Context())
	if err != nil {
		s.serverError(w, r, "cart view failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.BadJSON(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	count, err := s.Cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if errors.Is(err, ErrRecordNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"product_id": req.ProductID})
		return
	}
	if err != nil {
		s.serverError(w, r, "cart add failed", err)
		return
	}

	s.Metrics.Event("cart_add")
	kit.WriteJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}

	var req setReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.BadJSON(w, r, err)
		return
	}

	if err := s.Cart.SetQuantity(r.Context(), id, req.Quantity); err != nil {
		s.serverError(w, r, "cart set quantity failed", err)
		return
	}
	s.view(w, r)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}

	if err := s.Cart.RemoveItem(r.Context(), id); err != nil {
		s.serverError(w, r, "cart remove failed", err)
		return
	}
	s.Metrics.Event("cart_remove")
	s.view(w, r)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.Cart.Clear(r.Context()); err != nil {
		s.serverError(w, r, "cart clear failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func productParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

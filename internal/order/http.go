package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"DemoShop/internal/cart"
	"DemoShop/internal/catalog"
	"DemoShop/internal/model"
	"DemoShop/pkg/kit"
)

type Server struct {
	Orders  *Manager
	Catalog *catalog.Catalog
	Log     *zap.Logger
	Metrics *kit.Metrics
}

// View is an order as shown in the history page: the stored record plus
// its lines joined with the catalog.
type View struct {
	model.Order
	Lines []cart.LineView `json:"lines"`
}

func (s *Server) Register(r chi.Router) {
	r.Post("/orders", s.create)
	r.Get("/orders", s.list)
	r.Get("/orders/{id}", s.get)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var d Details
	if err := kit.DecodeJSON(w, r, &d); err != nil {
		kit.BadJSON(w, r, err)
		return
	}

	id, err := s.Orders.PlaceOrder(r.Context(), d)
	switch {
	case errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, r, http.StatusConflict, "cart is empty", nil)
		return
	case errors.Is(err, ErrInvalidDetails):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		s.serverError(w, r, "place order failed", err)
		return
	}

	s.Metrics.Event("order_placed")
	kit.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List serves the full history, most recent first. It is also mounted
// behind the retailer guard.
func (s *Server) List(w http.ResponseWriter, r *http.Request) { s.list(w, r) }

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Orders.ListOrders(r.Context())
	if err != nil {
		s.serverError(w, r, "list orders failed", err)
		return
	}

	out := make([]View, 0, len(orders))
	for _, o := range orders {
		out = append(out, s.view(o))
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, err := s.Orders.GetOrder(r.Context(), id)
	if errors.Is(err, ErrOrderNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if err != nil {
		s.serverError(w, r, "get order failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.view(o))
}

func (s *Server) view(o model.Order) View {
	o.Summary = o.Summary.Rounded()
	return View{Order: o, Lines: cart.BuildView(o.Items, s.Catalog).Lines}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err), zap.String("request_id", chimw.GetReqID(r.Context())))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

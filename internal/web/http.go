package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ubermelon/internal/cart"
	"ubermelon/internal/catalog"
	"ubermelon/internal/customer"
	"ubermelon/internal/session"
)

type Server struct {
	Log        *zap.Logger
	Catalog    catalog.Store
	Customers  customer.Store
	Verify     customer.Verifier
	Sessions   *session.Manager
	Tokens     *session.TokenMaker
	SessionTTL time.Duration
}

// page carries the fields every template can use plus one page-specific
// payload.
type page struct {
	Flashes   []string
	Email     string
	CartCount int
	Data      any
}

func (s *Server) newPage(r *http.Request, data any) page {
	sid := sidFromContext(r.Context())
	return page{
		Flashes:   s.Sessions.PopFlashes(sid),
		Email:     s.Sessions.Email(sid),
		CartCount: s.Sessions.Cart(sid).Count(),
		Data:      data,
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home", s.newPage(r, nil))
}

func (s *Server) handleListMelons(w http.ResponseWriter, r *http.Request) {
	melons, err := s.Catalog.List(r.Context())
	if err != nil {
		s.Log.Error("list melons failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "melons", s.newPage(r, melons))
}

func (s *Server) handleShowMelon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	melon, err := s.Catalog.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.Sessions.Flash(sidFromContext(r.Context()), "We don't carry that melon.")
		http.Redirect(w, r, "/melons", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.Log.Error("get melon failed", zap.Error(err), zap.String("id", id))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "melon_detail", s.newPage(r, melon))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	sid := sidFromContext(r.Context())
	id := chi.URLParam(r, "id")

	s.Sessions.AddToCart(sid, id, 1)
	s.Sessions.Flash(sid, "Melon successfully added to cart.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

type cartView struct {
	Lines []cart.Line
	Total decimal.Decimal
}

func (s *Server) handleShowCart(w http.ResponseWriter, r *http.Request) {
	sid := sidFromContext(r.Context())

	lines, total, err := cart.Materialize(r.Context(), s.Sessions.Cart(sid), s.Catalog)
	if errors.Is(err, catalog.ErrNotFound) {
		s.Log.Warn("cart references unknown melon", zap.Error(err))
		s.Sessions.Flash(sid, "Your cart references a melon we no longer carry.")
		http.Redirect(w, r, "/melons", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.Log.Error("materialize cart failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "cart", s.newPage(r, cartView{Lines: lines, Total: total}))
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", s.newPage(r, nil))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sid := sidFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	cust, err := s.Customers.GetByEmail(r.Context(), email)
	if errors.Is(err, customer.ErrNotFound) {
		s.Sessions.Flash(sid, "No customer with that email found.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.Log.Error("customer lookup failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if !s.Verify.Verify(cust.Password, password) {
		s.Sessions.Flash(sid, "Incorrect password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	s.Sessions.SetEmail(sid, cust.Email)
	s.Sessions.Flash(sid, "Logged in")
	http.Redirect(w, r, "/melons", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Destroy(sidFromContext(r.Context()))

	sid := s.Sessions.Create()
	s.setSessionCookie(w, sid)
	s.Sessions.Flash(sid, "Logged out.")
	http.Redirect(w, r, "/melons", http.StatusSeeOther)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Flash(sidFromContext(r.Context()),
		"Sorry! Checkout will be implemented in a future version.")
	http.Redirect(w, r, "/melons", http.StatusSeeOther)
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

type Handler struct {
	sessions *session.Service
	catalog  menu.Catalog
	orders   order.Repository
	logger   *zap.Logger
}

// NewHandler wires the transport to the session service. orders may be nil,
// in which case the order lookup routes are not mounted.
func NewHandler(sessions *session.Service, catalog menu.Catalog, orders order.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, catalog: catalog, orders: orders, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "checkout-service"})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// --- menu ---

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]menuItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toMenuItemDTO(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemDTO(item))
}

// QuoteMenuItem prices a configuration without touching any cart.
func (h *Handler) QuoteMenuItem(w http.ResponseWriter, r *http.Request) {
	req := quoteRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}

	item, err := h.catalog.GetMenuItem(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sel, err := pricing.Bind(item, req.Selections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	quote, err := pricing.Price(item, req.Quantity, sel)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteDTO(quote))
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCartDTO(h.sessions.Cart(r.Context(), chi.URLParam(r, "sessionId"))))
}

type lineResponse struct {
	Line lineDTO `json:"line"`
	Cart cartDTO `json:"cart"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	req := addItemRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		h.writeBadRequest(w, r, "itemId is required")
		return
	}

	line, err := h.sessions.AddToCart(r.Context(), sessionID, req.ItemID, req.Quantity, req.Selections)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lineResponse{
		Line: toLineDTO(line),
		Cart: toCartDTO(h.sessions.Cart(r.Context(), sessionID)),
	})
}

func (h *Handler) AddCustomization(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	req := addItemRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		h.writeBadRequest(w, r, "itemId is required")
		return
	}

	line, err := h.sessions.SubmitCustomization(r.Context(), sessionID, req.ItemID, req.Selections, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lineResponse{
		Line: toLineDTO(line),
		Cart: toCartDTO(h.sessions.Cart(r.Context(), sessionID)),
	})
}

func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}

	view, err := h.sessions.SetQuantity(r.Context(), chi.URLParam(r, "sessionId"), chi.URLParam(r, "lineId"), req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(view))
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.RemoveLine(r.Context(), chi.URLParam(r, "sessionId"), chi.URLParam(r, "lineId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(view))
}

// --- checkout ---

func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.StartCheckout(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(view))
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Checkout(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(view))
}

func (h *Handler) ExitCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ExitCheckout(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}

	view, err := h.sessions.SetAddress(r.Context(), chi.URLParam(r, "sessionId"), req.toAddress())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(view))
}

func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		h.writeBadRequest(w, r, "invalid JSON body")
		return
	}

	view, err := h.sessions.SetPayment(r.Context(), chi.URLParam(r, "sessionId"), req.toPayment())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(view))
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Advance(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(view))
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	view, exited, err := h.sessions.Retreat(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := retreatDTO{Exited: exited}
	if !exited {
		dto := toCheckoutDTO(view)
		resp.Checkout = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.sessions.PlaceOrder(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receiptDTO{OrderID: receipt.OrderID, PlacedAt: receipt.PlacedAt})
}

// --- orders ---

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (h *Handler) ListSessionOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListBySession(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]orderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderDTO(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

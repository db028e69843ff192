package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
)

type RouterOptions struct {
	Logger           *zap.Logger
	CORSAllowOrigins []string
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recover(logger))
	if len(opts.CORSAllowOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSAllowOrigins))
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/menu/items", func(r chi.Router) {
			r.Get("/", h.ListMenuItems)
			r.Get("/{itemId}", h.GetMenuItem)
			r.Post("/{itemId}/quote", h.QuoteMenuItem)
		})

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Post("/items", h.AddItem)
				r.Post("/customizations", h.AddCustomization)
				r.Put("/lines/{lineId}", h.UpdateLine)
				r.Delete("/lines/{lineId}", h.RemoveLine)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", h.StartCheckout)
				r.Get("/", h.GetCheckout)
				r.Delete("/", h.ExitCheckout)
				r.Put("/address", h.SetAddress)
				r.Put("/payment", h.SetPayment)
				r.Post("/advance", h.Advance)
				r.Post("/retreat", h.Retreat)
				r.Post("/place", h.PlaceOrder)
			})

			if h.orders != nil {
				r.Get("/orders", h.ListSessionOrders)
			}
		})

		if h.orders != nil {
			r.Get("/orders/{orderId}", h.GetOrder)
		}
	})

	return r
}

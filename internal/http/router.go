package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Deps struct {
	Logger           zerolog.Logger
	CORSAllowOrigins []string

	Products *ProductHandler
	Cart     *CartHandler
	Health   *HealthHandler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(d.Logger))
	r.Use(Recover)
	r.Use(CORS(d.CORSAllowOrigins))

	r.Get("/", d.Health.Root)
	r.Get("/health", d.Health.Health)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", d.Products.List)
		r.Get("/categories", d.Products.Categories)
		r.Get("/search", d.Products.Search)
		r.Get("/{id}", d.Products.Get)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", d.Cart.GetCart)
		r.Post("/", d.Cart.AddItem)
		r.Delete("/", d.Cart.Clear)
		r.Post("/checkout", d.Cart.Checkout)
		r.Get("/{id}", d.Cart.GetItem)
		r.Put("/{id}", d.Cart.UpdateItem)
		r.Delete("/{id}", d.Cart.RemoveItem)
	})

	r.NotFound(d.Health.NotFound)
	r.MethodNotAllowed(d.Health.MethodNotAllowed)

	return r
}

package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
)

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	cors := cors.New(cors.Options{
		AllowedOrigins: []string{s.c.Origin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},

		Debug: s.c.Debug,
	})

	r.Use(cors.Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.healthz)

	// login attempts are rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(
			7,              // requests
			15*time.Second, // per duration
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			}),
		))
		r.Post("/api/login", s.login)
	})

	// storefront writes receipts without admin auth
	r.Post("/api/receipts", s.addReceipt)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth.WithAuth)

		r.Get("/session", s.getSession)
		r.Put("/session", s.putSession)

		r.Route("/products/{id}", func(sr chi.Router) {
			sr.Use(s.ProductCtx)
			sr.Get("/", s.getProductById)
			sr.Put("/", s.modifyProductById)
			sr.Delete("/", s.deleteProductById)
		})
		r.Get("/products", s.getAllProductsList)
		r.Post("/products", s.addProduct)

		r.Get("/orders", s.getAllReceiptsList)
		r.Put("/orders/{id}/done", s.markReceiptDone)

		r.Get("/banners", s.getBannersList)
		r.Post("/banners", s.addBanner)
		r.Delete("/banners/{id}", s.deleteBannerById)

		r.Get("/report", s.getReport)
	})

	return r
}

func (s *Server) Serve() error {
	return http.ListenAndServe(":"+s.c.Port, s.Router())
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	custommiddleware "github.com/mmeshcher/service-manager/internal/middleware"
)

// RouterOptions задаёт параметры HTTP-маршрутизатора.
type RouterOptions struct {
	// RateLimit ограничивает число запросов к API с одного IP в минуту. Ноль отключает ограничение.
	RateLimit int
	// AllowedOrigins включает CORS для перечисленных источников. Пустой список отключает CORS.
	AllowedOrigins []string
}

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(h.metrics.Middleware)
	if len(h.options.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.options.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding", custommiddleware.EmployeeHeader},
			MaxAge:         300,
		}))
	}
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if h.options.RateLimit > 0 {
			r.Use(httprate.Limit(h.options.RateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				}),
			))
		}

		r.Get("/customer-types", h.ListCustomerTypes)
		r.Post("/customer-types", h.CreateCustomerType)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCustomer)
				r.Put("/", h.UpdateCustomer)
				r.Delete("/", h.DeleteCustomer)

				r.Get("/representatives", h.ListRepresentatives)
				r.Post("/representatives", h.CreateRepresentative)
				r.Get("/departments", h.ListDepartments)
				r.Post("/departments", h.CreateDepartment)
				r.Get("/assets", h.ListCustomerAssets)
				r.Post("/assets", h.CreateCustomerAsset)
			})
		})

		r.Get("/representatives/{id}", h.GetRepresentative)
		r.Put("/representatives/{id}", h.UpdateRepresentative)
		r.Delete("/representatives/{id}", h.DeleteRepresentative)

		r.Delete("/departments/{id}", h.DeleteDepartment)

		r.Get("/customer-assets/{id}", h.GetCustomerAsset)
		r.Put("/customer-assets/{id}", h.UpdateCustomerAsset)
		r.Delete("/customer-assets/{id}", h.DeleteCustomerAsset)

		r.Get("/brands", h.ListBrands)
		r.Post("/brands", h.CreateBrand)
		r.Get("/asset-categories", h.ListAssetCategories)
		r.Post("/asset-categories", h.CreateAssetCategory)

		r.Get("/assets", h.ListAssets)
		r.Post("/assets", h.CreateAsset)
		r.Get("/assets/{id}", h.GetAsset)
		r.Delete("/assets/{id}", h.DeleteAsset)

		r.Get("/material-categories", h.ListMaterialCategories)
		r.Post("/material-categories", h.CreateMaterialCategory)

		r.Get("/materials", h.ListMaterials)
		r.Post("/materials", h.CreateMaterial)
		r.Get("/materials/{id}", h.GetMaterial)
		r.Put("/materials/{id}", h.UpdateMaterial)
		r.Delete("/materials/{id}", h.DeleteMaterial)

		r.Get("/roles", h.ListRoles)
		r.Post("/roles", h.CreateRole)

		r.Get("/employees", h.ListEmployees)
		r.Post("/employees", h.CreateEmployee)
		r.Get("/employees/{id}", h.GetEmployee)
		r.Delete("/employees/{id}", h.DeleteEmployee)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetOrder)
				r.Delete("/", h.DeleteOrder)
				r.Get("/total", h.OrderTotal)
				r.Post("/hand-over", h.HandOver)
				r.Post("/lines", h.AddLine)
				r.Get("/notes", h.ListNotes)

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.ActorMiddleware)

					r.Post("/service", h.MarkServiced)
					r.Post("/complete", h.MarkCompleted)
					r.Post("/notes", h.AddNote)
				})
			})
		})

		r.Put("/lines/{id}", h.UpdateLine)
		r.Delete("/lines/{id}", h.RemoveLine)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}

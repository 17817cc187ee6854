package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/nhle/docket/internal/http/handler"
	mw "github.com/nhle/docket/internal/http/middleware"
	"github.com/nhle/docket/internal/http/static"
	"github.com/nhle/docket/internal/service"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger      *log.Logger
	Metrics     *mw.Metrics
	CORSOrigins []string
}

func NewRouter(svc *service.Service, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = mw.NewMetrics()
	}

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery(logger))
	r.Use(mw.Logging(logger))
	r.Use(metrics.Instrument)
	if len(opts.CORSOrigins) > 0 {
		r.Use(mw.CORS(opts.CORSOrigins))
	}

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	projects := handler.NewProjectHandler(svc, metrics)
	todos := handler.NewTodoHandler(svc, metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Post("/", projects.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projects.Get)
				r.Patch("/", projects.Rename)
				r.Delete("/", projects.Delete)
				r.Patch("/archive", projects.Archive)
				r.Patch("/unarchive", projects.Unarchive)
				r.Patch("/description", projects.UpdateDescription)

				r.Get("/todos", todos.List)
				r.Post("/todos", todos.Create)
			})
		})

		r.Route("/todos/{id}", func(r chi.Router) {
			r.Get("/", todos.Get)
			r.Patch("/", todos.Update)
			r.Delete("/", todos.Delete)
			r.Patch("/toggle", todos.Toggle)
			r.Patch("/move", todos.Move)
			r.Patch("/details", todos.UpdateDetails)
		})
	})

	r.Handle("/*", http.FileServer(http.FS(static.FS)))

	return r
}

package httpapi

import (
	"net/http"
	"strings"

	"rooming-data/internal/metrics"

	"go.uber.org/zap"
)

// Router wraps http.ServeMux. Every route is logged and measured under its
// registered pattern.
type Router struct {
	mux     *http.ServeMux
	metrics *metrics.Metrics
	logger  *zap.Logger
	handler http.Handler
}

func NewRouter(m *metrics.Metrics, logger *zap.Logger) *Router {
	r := &Router{
		mux:     http.NewServeMux(),
		metrics: m,
		logger:  logger,
	}
	r.handler = withRequestID(recoverer(logger, r.mux))
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, r.instrument(pattern, h))
}

// HandleHandler registers an http.Handler (e.g. promhttp).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, r.instrument(pattern, h))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// RegisterRoomingListRoutes mounts the JSON API under /api/rooming-lists.
func (r *Router) RegisterRoomingListRoutes(h *RoomingListsHandler) {
	r.Handle("/api/rooming-lists", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListRoomingLists(w, req)
		case http.MethodPost:
			h.CreateRoomingList(w, req)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	r.Handle("/api/rooming-lists/statuses", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.ListStatuses(w, req)
	})

	r.Handle("/api/rooming-lists/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.Export(w, req)
	})

	r.Handle("/api/rooming-lists/reload", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.Reload(w, req)
	})

	// {id}
	r.Handle("/api/rooming-lists/", func(w http.ResponseWriter, req *http.Request) {
		id, ok := parseID(strings.TrimPrefix(req.URL.Path, "/api/rooming-lists/"))
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		switch req.Method {
		case http.MethodGet:
			h.GetRoomingList(w, req, id)
		case http.MethodPut:
			h.UpdateRoomingList(w, req, id)
		case http.MethodDelete:
			h.DeleteRoomingList(w, req, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	r.Handle("/data/rfp-data.json", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.Document(w, req)
	})
}

// RegisterDashboardRoutes mounts the HTML dashboard at / and the not-found
// page for every other unmatched path.
func (r *Router) RegisterDashboardRoutes(d *DashboardHandler) {
	r.Handle("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				writeJSON(w, http.StatusNotFound, Fail("not found"))
				return
			}
			d.NotFound(w, req)
			return
		}
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		d.Dashboard(w, req)
	})
}

// RegisterOpsRoutes mounts /healthz and /metrics.
func (r *Router) RegisterOpsRoutes(h *RoomingListsHandler, m *metrics.Metrics) {
	r.Handle("/healthz", h.Health)
	r.HandleHandler("/metrics", m.Handler())
}

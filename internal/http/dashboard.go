package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/models"
	"rooming-data/internal/querystate"
	"rooming-data/internal/service"
	"rooming-data/internal/viewmode"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const emptyStateMessage = "No events found matching your criteria."

// DashboardHandler renders the server-side dashboard.
type DashboardHandler struct {
	svc            service.RoomingListService
	searchDebounce time.Duration
	logger         *zap.Logger
}

func NewDashboardHandler(svc service.RoomingListService, searchDebounce time.Duration, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, searchDebounce: searchDebounce, logger: logger}
}

type statusOption struct {
	Name      string
	Selected  bool
	ToggleURL string
}

type dashboardGroup struct {
	EventID   domain.ID
	EventName string
	Color     string
	Mode      viewmode.Mode
	NextMode  viewmode.Mode
	ToggleURL string
	Items     []models.RoomingListCard
}

type bulkLink struct {
	Label string
	URL   string
}

type dashboardPage struct {
	Search           string
	SelectedStatuses string
	ViewParams       []string
	Statuses         []statusOption
	ClearURL         string
	Summary          string
	Groups           []dashboardGroup
	Bulk             []bulkLink
	ExportXLSX       string
	ExportCSV        string
	Error            string
	EmptyMessage     string
	SearchDebounceMs int64
}

// GET /
// params: search, statuses (comma-joined), view (repeated eventId:mode)
func (d *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := querystate.FromValues(values)
	modes := viewmode.FromValues(values)

	page := dashboardPage{
		Search:           q.Search(),
		ClearURL:         pageURL(querystate.State{}, modes),
		EmptyMessage:     emptyStateMessage,
		SearchDebounceMs: d.searchDebounce.Milliseconds(),
	}
	if sts := q.Statuses(); len(sts) > 0 {
		page.SelectedStatuses = q.Values().Get(querystate.ParamStatuses)
	}
	viewValues := url.Values{}
	modes.Apply(viewValues)
	page.ViewParams = viewValues[viewmode.ParamView]

	status := http.StatusOK
	resp, err := d.svc.ListRoomingLists(r.Context(), service.ListRoomingListsRequest{Query: q})
	if err != nil {
		d.logger.Warn("Dashboard load failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		page.Error = "Rooming lists could not be loaded. " + err.Error()
		page.Summary = models.Summary(0, 0)
		status = http.StatusBadGateway
	} else {
		d.fillPage(&page, q, modes, resp)
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		d.logger.Error("Dashboard render failed", zap.Error(err))
		renderFallback(w, http.StatusInternalServerError, "Something went wrong", "The dashboard could not be rendered.")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (d *DashboardHandler) fillPage(page *dashboardPage, q querystate.State, modes *viewmode.Modes, resp *service.ListRoomingListsResponse) {
	page.Summary = models.Summary(resp.Matched, resp.Total)

	for _, s := range resp.Statuses {
		page.Statuses = append(page.Statuses, statusOption{
			Name:      s,
			Selected:  q.HasStatus(s),
			ToggleURL: pageURL(q.ToggleStatus(s), modes),
		})
	}

	ids := make([]domain.ID, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		ids = append(ids, g.EventID)
	}
	modes.Observe(ids...)

	for _, g := range models.NewEventGroupModels(resp.Groups) {
		mode := modes.Get(g.EventID)
		next := modes.Clone()
		next.Toggle(g.EventID)
		page.Groups = append(page.Groups, dashboardGroup{
			EventID:   g.EventID,
			EventName: g.EventName,
			Color:     g.Color,
			Mode:      mode,
			NextMode:  mode.Next(),
			ToggleURL: pageURL(q, next),
			Items:     g.Items,
		})
	}

	if len(ids) > 0 {
		for _, b := range []struct {
			label string
			mode  viewmode.Mode
		}{
			{"Expand all", viewmode.Expanded},
			{"One row", viewmode.OneRow},
			{"Collapse all", viewmode.Collapsed},
		} {
			all := viewmode.New()
			all.SetAll(b.mode, ids...)
			page.Bulk = append(page.Bulk, bulkLink{Label: b.label, URL: pageURL(q, all)})
		}
	}

	page.ExportXLSX = exportURL(q, "xlsx")
	page.ExportCSV = exportURL(q, "csv")
}

// NotFound renders the not-found page for unknown non-API paths.
func (d *DashboardHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderFallback(w, http.StatusNotFound, "Page not found", "The page "+r.URL.Path+" does not exist.")
}

type messagePage struct {
	Title   string
	Message string
}

func renderFallback(w http.ResponseWriter, status int, title, message string) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "message.html", messagePage{Title: title, Message: message}); err != nil {
		http.Error(w, title, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageURL(q querystate.State, modes *viewmode.Modes) string {
	v := url.Values{}
	q.Apply(v)
	modes.Apply(v)
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func exportURL(q querystate.State, format string) string {
	v := q.Values()
	v.Set("format", format)
	return "/api/rooming-lists/export?" + v.Encode()
}

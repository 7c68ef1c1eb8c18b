package httpapi

import (
	"net/http"
	"time"

	"rooming-data/internal/domain"
	"rooming-data/internal/export"
	"rooming-data/internal/models"
	"rooming-data/internal/querystate"
	"rooming-data/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// RoomingListsHandler serves the JSON API over a RoomingListService.
type RoomingListsHandler struct {
	svc    service.RoomingListService
	logger *zap.Logger
}

func NewRoomingListsHandler(svc service.RoomingListService, logger *zap.Logger) *RoomingListsHandler {
	return &RoomingListsHandler{svc: svc, logger: logger}
}

// GET /api/rooming-lists
// params:
// - search? string
// - statuses? comma-joined string
func (h *RoomingListsHandler) ListRoomingLists(w http.ResponseWriter, r *http.Request) {
	q := querystate.FromValues(r.URL.Query())
	resp, err := h.svc.ListRoomingLists(r.Context(), service.ListRoomingListsRequest{Query: q})
	if err != nil {
		h.logger.Warn("ListRoomingLists failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(models.NewGetRoomingListsModel(q.Search(), q.Statuses(), resp.Groups, resp.Matched, resp.Total, resp.Statuses)))
}

// GET /api/rooming-lists/statuses
func (h *RoomingListsHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.ListStatuses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(statuses))
}

// GET /api/rooming-lists/{id}
func (h *RoomingListsHandler) GetRoomingList(w http.ResponseWriter, r *http.Request, id int) {
	list, err := h.svc.GetRoomingList(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(models.NewRoomingListCard(list)))
}

// POST /api/rooming-lists
func (h *RoomingListsHandler) CreateRoomingList(w http.ResponseWriter, r *http.Request) {
	var in domain.RoomingList
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	_, err := h.svc.CreateRoomingList(r.Context(), &in)
	writeError(w, err)
}

// PUT /api/rooming-lists/{id}
func (h *RoomingListsHandler) UpdateRoomingList(w http.ResponseWriter, r *http.Request, id int) {
	var in domain.RoomingList
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	_, err := h.svc.UpdateRoomingList(r.Context(), id, &in)
	writeError(w, err)
}

// DELETE /api/rooming-lists/{id}
func (h *RoomingListsHandler) DeleteRoomingList(w http.ResponseWriter, r *http.Request, id int) {
	writeError(w, h.svc.DeleteRoomingList(r.Context(), id))
}

// POST /api/rooming-lists/reload
func (h *RoomingListsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Reload(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(healthOf(c, true)))
}

// GET /api/rooming-lists/export?format=xlsx|csv
func (h *RoomingListsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	resp, err := h.svc.ListRoomingLists(r.Context(), service.ListRoomingListsRequest{Query: querystate.FromValues(r.URL.Query())})
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := export.Render(format, resp.Groups)
	if err != nil {
		h.logger.Error("Export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /data/rfp-data.json serves the collection as a bare array.
func (h *RoomingListsHandler) Document(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Records)
}

// GET /healthz reports liveness and whether a catalog is loaded. It never
// triggers a load.
func (h *RoomingListsHandler) Health(w http.ResponseWriter, r *http.Request) {
	c, ok := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, Ok(healthOf(c, ok)))
}

func healthOf(c *service.Catalog, loaded bool) models.HealthModel {
	m := models.HealthModel{Status: "ok", CatalogLoaded: loaded}
	if loaded && c != nil {
		m.Records = len(c.Records)
		m.LoadedAt = c.LoadedAt.UTC().Format(time.RFC3339)
	}
	return m
}
